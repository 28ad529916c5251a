package wat

import (
	"io"
	"strings"

	"github.com/you-not-fish/teal/internal/rtabi"
)

// Write serializes m to w in the text format. Sections appear in a fixed
// order: imports, memory, globals, data, functions, exports.
// It returns the first write error.
func Write(w io.Writer, m *Module) error {
	e := &emitter{w: w}

	e.emit("(module")
	e.indent++

	for _, fn := range rtabi.HostFunctions() {
		e.emitRaw("%s(import %q %q (func $%s", e.pad(), fn.Module, fn.Name, fn.Name)
		for i := 0; i < fn.NumParams; i++ {
			e.emitRaw(" (param %s)", m.Type)
		}
		if fn.HasResult {
			e.emitRaw(" (result %s)", m.Type)
		}
		e.emitRaw("))\n")
	}

	if m.Memory {
		e.emit("(memory $%s %d)", rtabi.MemoryName, rtabi.MemoryPages)
	}

	for _, g := range m.Globals {
		if g.Mutable {
			e.emit("(global $%s (mut %s) (%s.const 0))", g.Name, g.Type, g.Type)
		} else {
			e.emit("(global $%s %s (%s.const 0))", g.Name, g.Type, g.Type)
		}
	}

	for _, d := range m.Data {
		e.emit("(data (i32.const %d) %s)", d.Offset, quote(d.Bytes))
	}

	for _, f := range m.Functions {
		writeFunc(e, m.Type, f)
	}

	if m.Entry != "" {
		e.emit("(export %q (func $%s))", m.Entry, m.Entry)
	}
	if m.Memory {
		e.emit("(export %q (memory $%s))", rtabi.MemoryName, rtabi.MemoryName)
	}

	e.indent--
	e.emit(")")
	return e.err
}

// writeFunc writes one function: its header with params and result,
// its locals, then its instructions.
func writeFunc(e *emitter, typ ValueType, f *Function) {
	e.emitRaw("%s(func $%s", e.pad(), f.Name)
	for _, p := range f.Params {
		e.emitRaw(" (param $%s %s)", p, typ)
	}
	if f.Result != nil {
		e.emitRaw(" (result %s)", *f.Result)
	}
	e.emitRaw("\n")

	e.indent++
	for _, l := range f.Locals {
		e.emit("(local $%s %s)", l, typ)
	}
	for _, in := range f.Body {
		e.emitInst(in)
	}
	e.indent--
	e.emit(")")
}

// Format returns the text format of m.
func Format(m *Module) string {
	var b strings.Builder
	Write(&b, m)
	return b.String()
}
