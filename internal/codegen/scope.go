package codegen

import (
	"unicode/utf8"

	"github.com/you-not-fish/teal/internal/wat"
)

// context is the function currently being generated. The entry context
// sits at the bottom of the generator's stack; each definition pushes
// its own context for the duration of its body.
type context struct {
	fn     *wat.Function
	named  bool            // false for the entry context
	locals map[string]bool // params and declared locals of fn
}

func newContext(fn *wat.Function, named bool) *context {
	c := &context{fn: fn, named: named, locals: make(map[string]bool)}
	for _, p := range fn.Params {
		c.locals[p] = true
	}
	return c
}

// declareLocal adds name to the function's locals unless it is already
// a param or local.
func (c *context) declareLocal(name string) {
	if c.locals[name] {
		return
	}
	c.locals[name] = true
	c.fn.Locals = append(c.fn.Locals, name)
}

func (c *context) emit(op wat.Opcode, imm string) {
	c.fn.Body = append(c.fn.Body, wat.Instruction{Op: op, Imm: imm})
}

// scope says where a name lives.
type scope uint8

const (
	scopeNone scope = iota
	scopeLocal
	scopeGlobal
)

// resolve decides whether name is a local of the current function or a
// global. Locals win; anything else must be a declared global.
func (g *generator) resolve(name string) scope {
	if g.top().locals[name] {
		return scopeLocal
	}
	if g.mod.GlobalIndex(name) >= 0 {
		return scopeGlobal
	}
	return scopeNone
}

func (g *generator) push(c *context) {
	g.stack = append(g.stack, c)
}

func (g *generator) pop() *context {
	c := g.top()
	g.stack = g.stack[:len(g.stack)-1]
	return c
}

func (g *generator) top() *context {
	return g.stack[len(g.stack)-1]
}

// validName reports whether name can be written as a module identifier.
// Identifiers in the text format are restricted to ASCII.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
