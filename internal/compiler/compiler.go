// Package compiler runs the whole pipeline: lex, parse, generate and write.
//
// Every call owns its tokens, syntax tree and module, so separate
// compilations may run concurrently.
package compiler

import (
	"fmt"
	"strings"
	"time"

	"github.com/you-not-fish/teal/internal/codegen"
	"github.com/you-not-fish/teal/internal/host"
	"github.com/you-not-fish/teal/internal/syntax"
	"github.com/you-not-fish/teal/internal/vm"
	"github.com/you-not-fish/teal/internal/wat"
)

// Stage names passed to a trace function.
const (
	StageLex   = "lex"
	StageParse = "parse"
	StageGen   = "codegen"
	StageWrite = "write"
	StageRun   = "run"
)

// Engine executes a compiled result and returns the entry's value.
type Engine func(res *Result, sink vm.Sink) (vm.Value, error)

// Interpret runs the module on the in-process machine.
func Interpret(res *Result, sink vm.Sink) (vm.Value, error) {
	m, err := vm.New(res.Module, sink)
	if err != nil {
		return vm.Value{}, err
	}
	return m.Run()
}

// Wasm assembles the module text and runs it on the WebAssembly engine.
func Wasm(res *Result, sink vm.Sink) (vm.Value, error) {
	return host.Run(host.Program{
		Text:  res.Text,
		Type:  res.Module.Type,
		Entry: res.Module.Entry,
	}, sink)
}

// Pipeline holds the settings of one compilation.
type Pipeline struct {
	Config codegen.Config

	// Engine executes the result in Run. Nil means Interpret.
	Engine Engine

	// Trace, if non-nil, is called after each completed stage.
	Trace func(stage string, elapsed time.Duration)
}

// Result holds the output of every stage that ran.
type Result struct {
	Tokens  []syntax.Item
	Program *syntax.Program
	Module  *wat.Module
	Text    string
}

func (p *Pipeline) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	if err == nil && p.Trace != nil {
		p.Trace(stage, time.Since(start))
	}
	return err
}

// Lex runs the scanner only.
func (p *Pipeline) Lex(src string) ([]syntax.Item, error) {
	var items []syntax.Item
	err := p.timed(StageLex, func() (err error) {
		items, err = syntax.Lex(src)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	return items, nil
}

// Parse lexes and parses src.
func (p *Pipeline) Parse(src string) (*Result, error) {
	items, err := p.Lex(src)
	if err != nil {
		return nil, err
	}
	res := &Result{Tokens: items}
	err = p.timed(StageParse, func() (err error) {
		res.Program, err = syntax.NewParser(items).Parse()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return res, nil
}

// Compile runs every stage up to and including the text writer.
func (p *Pipeline) Compile(src string) (*Result, error) {
	res, err := p.Parse(src)
	if err != nil {
		return nil, err
	}

	err = p.timed(StageGen, func() (err error) {
		res.Module, err = codegen.Generate(res.Program, p.Config)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}

	var b strings.Builder
	if err := p.timed(StageWrite, func() error { return wat.Write(&b, res.Module) }); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	res.Text = b.String()
	return res, nil
}

// Run compiles src and executes its entry function. Log output goes to
// sink.
func (p *Pipeline) Run(src string, sink vm.Sink) (vm.Value, error) {
	res, err := p.Compile(src)
	if err != nil {
		return vm.Value{}, err
	}

	run := p.Engine
	if run == nil {
		run = Interpret
	}
	var v vm.Value
	err = p.timed(StageRun, func() (err error) {
		v, err = run(res, sink)
		return err
	})
	if err != nil {
		return vm.Value{}, fmt.Errorf("run: %w", err)
	}
	return v, nil
}

// Compile translates src into WebAssembly text.
func Compile(src string, cfg codegen.Config) (string, error) {
	p := &Pipeline{Config: cfg}
	res, err := p.Compile(src)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// CompileModule translates src into a module without writing it out.
func CompileModule(src string, cfg codegen.Config) (*wat.Module, error) {
	p := &Pipeline{Config: cfg}
	res, err := p.Parse(src)
	if err != nil {
		return nil, err
	}
	m, err := codegen.Generate(res.Program, cfg)
	if err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}
	return m, nil
}

// Run compiles and executes src, sending log output to sink.
func Run(src string, cfg codegen.Config, sink vm.Sink) (vm.Value, error) {
	p := &Pipeline{Config: cfg}
	return p.Run(src, sink)
}
