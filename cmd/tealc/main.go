// Package main implements the Teal compiler entry point.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/you-not-fish/teal/internal/codegen"
	"github.com/you-not-fish/teal/internal/compiler"
	"github.com/you-not-fish/teal/internal/host"
	"github.com/you-not-fish/teal/internal/syntax"
	"github.com/you-not-fish/teal/internal/vm"
	"github.com/you-not-fish/teal/internal/wat"
)

// Compiler flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text or json)")
	output     = flag.String("o", "", "Output file")
	run        = flag.Bool("run", false, "Execute the program and print its log output")
	valueType  = flag.String("type", "f64", "Value type of the module (i32 or f64)")
	entry      = flag.String("entry", "main", "Entry function (main or init)")
	engine     = flag.String("engine", "wasm", "Engine for -run (wasm or vm)")
	trace      = flag.Bool("trace", false, "Output timing trace")
	version    = flag.Bool("version", false, "Print version")
	inline     = flag.String("e", "", "Compile the given source instead of a file")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Teal Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: tealc [options] <file.teal>\n")
		fmt.Fprintf(os.Stderr, "       tealc [options] -e 'source'\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("tealc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	filename, src, err := readInput(flag.Args(), *inline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if len(flag.Args()) == 0 {
			fmt.Fprintln(os.Stderr, "usage: tealc [options] <file.teal>")
		}
		os.Exit(1)
	}

	// Handle -emit-tokens
	if *emitTokens {
		os.Exit(runEmitTokens(filename, src))
	}

	// Handle -emit-ast
	if *emitAST {
		os.Exit(runEmitAST(filename, src, *astFormat))
	}

	cfg, err := parseConfig(*valueType, *entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	eng, err := parseEngine(*engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	p := &compiler.Pipeline{Config: cfg, Engine: eng}
	if *trace {
		p.Trace = traceTo(os.Stderr)
	}

	if *run {
		os.Exit(runProgram(p, filename, src))
	}
	os.Exit(runCompile(p, filename, src, *output))
}

// readInput returns the name and text of the program to compile.
func readInput(args []string, inline string) (string, string, error) {
	if inline != "" {
		return "<inline>", inline, nil
	}
	if len(args) == 0 {
		return "", "", fmt.Errorf("no input file")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(data), nil
}

// parseConfig builds the code generation settings from flag values.
func parseConfig(typ, entry string) (codegen.Config, error) {
	var cfg codegen.Config

	t, ok := wat.ParseValueType(typ)
	if !ok || (t != wat.I32 && t != wat.F64) {
		return cfg, fmt.Errorf("unsupported value type %q (want i32 or f64)", typ)
	}
	cfg.Type = t

	k, ok := codegen.ParseEntryKind(entry)
	if !ok {
		return cfg, fmt.Errorf("unknown entry %q (want main or init)", entry)
	}
	cfg.Entry = k
	return cfg, nil
}

// parseEngine maps an -engine flag value to the engine used by -run.
func parseEngine(name string) (compiler.Engine, error) {
	switch name {
	case "wasm":
		return compiler.Wasm, nil
	case "vm":
		return compiler.Interpret, nil
	}
	return nil, fmt.Errorf("unknown engine %q (want wasm or vm)", name)
}

// traceTo returns a trace function printing stage timings to w.
func traceTo(w io.Writer) func(string, time.Duration) {
	return func(stage string, d time.Duration) {
		fmt.Fprintf(w, "trace: %-8s %v\n", stage, d)
	}
}

// runEmitTokens scans the input and prints all tokens with positions.
func runEmitTokens(filename, src string) int {
	items, err := syntax.Lex(src)

	// Print header
	fmt.Printf("%-20s %-12s %-10s %s\n", "POSITION", "TOKEN", "CLASS", "LITERAL")
	fmt.Printf("%-20s %-12s %-10s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 10), strings.Repeat("-", 20))

	for _, it := range items {
		fmt.Printf("%-20s %-12s %-10s %s\n", it.Span, it.Tok, tokenClass(it.Tok), formatLiteral(it.Lit))
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		return 1
	}
	return 0
}

// tokenClass names the lexical class of tok.
func tokenClass(tok syntax.Token) string {
	switch {
	case tok.IsEOF():
		return "eof"
	case tok.IsKeyword():
		return "keyword"
	case tok.IsOperator():
		return "operator"
	case tok == syntax.Name:
		return "name"
	case tok == syntax.Number || tok == syntax.String:
		return "literal"
	}
	return "delimiter"
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// runEmitAST parses the input and outputs the AST.
func runEmitAST(filename, src, format string) int {
	prog, err := syntax.Parse(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		return 1
	}

	switch format {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, prog); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	case "text":
		syntax.Fprint(os.Stdout, prog)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown AST format %q\n", format)
		return 1
	}
	return 0
}

// runCompile compiles the input and writes the module text to out, or to
// stdout if out is empty.
func runCompile(p *compiler.Pipeline, filename, src, out string) int {
	res, err := p.Compile(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		return 1
	}

	if out == "" {
		fmt.Print(res.Text)
		return 0
	}
	if err := os.WriteFile(out, []byte(res.Text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runProgram compiles and executes the input, printing every logged
// value on its own line. An init entry's result is printed last.
//
// If the pipeline's engine is not linked into this build the program runs
// on the built-in machine instead.
func runProgram(p *compiler.Pipeline, filename, src string) int {
	sink := vm.WriterSink{W: os.Stdout}
	res, err := p.Run(src, sink)
	if errors.Is(err, host.ErrUnavailable) {
		fmt.Fprintf(os.Stderr, "%s: %v; using the built-in machine\n", filename, err)
		fallback := *p
		fallback.Engine = compiler.Interpret
		res, err = fallback.Run(src, sink)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		return 1
	}
	if p.Config.Entry == codegen.Init {
		fmt.Println(res)
	}
	return 0
}
