// Package codegen lowers a teal syntax tree into a WebAssembly module.
package codegen

import (
	"math"
	"strconv"

	"github.com/you-not-fish/teal/internal/rtabi"
	"github.com/you-not-fish/teal/internal/syntax"
	"github.com/you-not-fish/teal/internal/wat"
)

// EntryKind selects how top-level code is exposed to the host.
type EntryKind uint8

const (
	// Script runs top-level code from an exported "main" that returns nothing.
	Script EntryKind = iota
	// Init runs top-level code from an exported "init" that returns the
	// value of the last top-level expression.
	Init
)

// Name returns the exported name of the entry function.
func (k EntryKind) Name() string {
	if k == Init {
		return rtabi.EntryInit
	}
	return rtabi.EntryMain
}

func (k EntryKind) String() string { return k.Name() }

// ParseEntryKind maps an entry function name to its kind.
func ParseEntryKind(name string) (EntryKind, bool) {
	switch name {
	case rtabi.EntryMain:
		return Script, true
	case rtabi.EntryInit:
		return Init, true
	}
	return 0, false
}

// Config configures code generation.
type Config struct {
	// Type is the value type of every value in the module, wat.I32 or
	// wat.F64. Zero means wat.F64.
	Type wat.ValueType

	// Entry selects the entry function.
	Entry EntryKind
}

// ValueType returns the configured value type with the default applied.
func (c Config) ValueType() wat.ValueType {
	if c.Type == 0 {
		return wat.F64
	}
	return c.Type
}

// generator holds the state of one Generate call.
type generator struct {
	typ wat.ValueType
	mod *wat.Module

	stack   []*context     // entry context at the bottom
	funcs   map[string]int // defined functions and their arity
	strs    map[string]int // string literal -> data offset
	dataEnd int            // next free data offset
}

// Generate lowers prog into a module. The first error aborts generation.
func Generate(prog *syntax.Program, cfg Config) (*wat.Module, error) {
	typ := cfg.ValueType()
	if typ != wat.I32 && typ != wat.F64 {
		return nil, &GenError{Err: ErrUnsupportedType, Name: typ.String()}
	}

	g := &generator{
		typ:     typ,
		mod:     &wat.Module{Type: typ, Entry: cfg.Entry.Name()},
		funcs:   make(map[string]int),
		strs:    make(map[string]int),
		dataEnd: rtabi.DataBase,
	}

	entry := &wat.Function{Name: cfg.Entry.Name()}
	g.push(newContext(entry, false))

	var err error
	if cfg.Entry == Init {
		entry.Result = &g.typ
		err = g.body(prog.List)
	} else {
		err = g.stmtList(prog.List)
	}
	if err != nil {
		return nil, err
	}

	g.pop()
	g.mod.Functions = append(g.mod.Functions, entry)
	return g.mod, nil
}

// errorf builds a GenError for node n.
func errorf(kind error, n syntax.Node, name string) error {
	return &GenError{Err: kind, Name: name, Line: n.Pos().Line}
}

// ----------------------------------------------------------------------------
// Statements

func (g *generator) stmtList(list []syntax.Expr) error {
	for _, x := range list {
		if err := g.stmt(x); err != nil {
			return err
		}
	}
	return nil
}

// body generates a function body whose last expression is the result.
// A body that ends without a value returns zero.
func (g *generator) body(list []syntax.Expr) error {
	if len(list) == 0 {
		g.top().emit(constOp(g.typ), "0")
		return nil
	}

	last := len(list) - 1
	if err := g.stmtList(list[:last]); err != nil {
		return err
	}
	if hasValue(list[last]) {
		return g.expr(list[last])
	}
	if err := g.stmt(list[last]); err != nil {
		return err
	}
	g.top().emit(constOp(g.typ), "0")
	return nil
}

// hasValue reports whether x leaves a value on the stack.
func hasValue(x syntax.Expr) bool {
	switch x.(type) {
	case *syntax.Binary, *syntax.Unary, *syntax.LetGet, *syntax.LetSet, *syntax.Call, *syntax.Literal:
		return true
	}
	return false
}

// stmt generates x in statement position, leaving nothing on the stack.
func (g *generator) stmt(x syntax.Expr) error {
	switch x := x.(type) {
	case *syntax.Block:
		return g.stmtList(x.List)
	case *syntax.LetAssign:
		return g.letAssign(x)
	case *syntax.LetSet:
		return g.letSet(x, false)
	case *syntax.Print:
		return g.print(x)
	case *syntax.IfElse:
		return g.ifElse(x)
	case *syntax.FuncDef:
		return g.funcDef(x)
	}

	if err := g.expr(x); err != nil {
		return err
	}
	g.top().emit(wat.Drop, "")
	return nil
}

// letAssign binds a name in the current context: a local inside a
// function, a global at top level. The initializer is generated before
// the name is declared, so it cannot refer to the name itself.
func (g *generator) letAssign(x *syntax.LetAssign) error {
	if !validName(x.Name) {
		return errorf(ErrBadName, x, x.Name)
	}
	if _, isFunc := g.funcs[x.Name]; isFunc {
		return errorf(ErrRedeclared, x, x.Name)
	}
	if err := g.expr(x.Init); err != nil {
		return err
	}

	c := g.top()
	if c.named {
		c.declareLocal(x.Name)
		c.emit(wat.LocalSet, x.Name)
		return nil
	}

	if g.mod.GlobalIndex(x.Name) < 0 {
		g.mod.Globals = append(g.mod.Globals, wat.Global{Name: x.Name, Mutable: true, Type: g.typ})
	}
	c.emit(wat.GlobalSet, x.Name)
	return nil
}

// letSet stores into an existing binding. With value set, the stored
// value is also left on the stack.
func (g *generator) letSet(x *syntax.LetSet, value bool) error {
	set, get := wat.LocalSet, wat.LocalGet
	switch g.resolve(x.Name) {
	case scopeNone:
		return errorf(ErrUndefined, x, x.Name)
	case scopeGlobal:
		set, get = wat.GlobalSet, wat.GlobalGet
	}

	if err := g.expr(x.Value); err != nil {
		return err
	}
	c := g.top()
	c.emit(set, x.Name)
	if value {
		c.emit(get, x.Name)
	}
	return nil
}

func (g *generator) print(x *syntax.Print) error {
	if err := g.expr(x.Value); err != nil {
		return err
	}
	g.top().emit(wat.Call, rtabi.FnLog)
	return nil
}

// ifElse generates a structured if. Branches are statements; the
// else marker is always present.
func (g *generator) ifElse(x *syntax.IfElse) error {
	if err := g.expr(x.Cond); err != nil {
		return err
	}
	c := g.top()
	if g.typ == wat.F64 {
		c.emit(wat.F64Const, "0")
		c.emit(wat.F64Ne, "")
	}

	c.emit(wat.If, "")
	if err := g.stmt(x.Then); err != nil {
		return err
	}
	c.emit(wat.Else, "")
	if x.Else != nil {
		if err := g.stmt(x.Else); err != nil {
			return err
		}
	}
	c.emit(wat.End, "")
	return nil
}

// funcDef generates a named function in a fresh context and restores
// the enclosing context afterwards.
func (g *generator) funcDef(x *syntax.FuncDef) error {
	if g.top().named {
		return errorf(ErrNestedFunc, x, x.Name)
	}
	if !validName(x.Name) {
		return errorf(ErrBadName, x, x.Name)
	}
	_, dup := g.funcs[x.Name]
	if dup || g.mod.GlobalIndex(x.Name) >= 0 || x.Name == rtabi.FnLog || x.Name == g.mod.Entry {
		return errorf(ErrRedeclared, x, x.Name)
	}

	seen := make(map[string]bool, len(x.Params))
	for _, p := range x.Params {
		if !validName(p) {
			return errorf(ErrBadName, x, p)
		}
		if seen[p] {
			return errorf(ErrRedeclared, x, p)
		}
		seen[p] = true
	}

	// Registered before the body so the function can call itself.
	g.funcs[x.Name] = len(x.Params)

	fn := &wat.Function{
		Name:   x.Name,
		Params: append([]string(nil), x.Params...),
		Result: &g.typ,
	}
	g.push(newContext(fn, true))
	err := g.body(x.Body)
	g.pop()
	if err != nil {
		return err
	}

	g.mod.Functions = append(g.mod.Functions, fn)
	return nil
}

// ----------------------------------------------------------------------------
// Expressions

// expr generates x in value position, leaving exactly one value.
func (g *generator) expr(x syntax.Expr) error {
	c := g.top()

	switch x := x.(type) {
	case *syntax.Literal:
		return g.literal(x)

	case *syntax.LetGet:
		switch g.resolve(x.Name) {
		case scopeLocal:
			c.emit(wat.LocalGet, x.Name)
		case scopeGlobal:
			c.emit(wat.GlobalGet, x.Name)
		default:
			return errorf(ErrUndefined, x, x.Name)
		}
		return nil

	case *syntax.LetSet:
		return g.letSet(x, true)

	case *syntax.Binary:
		ops := binaryOps(g.typ, x.Op)
		if ops == nil {
			return errorf(ErrUnsupportedType, x, x.Op.String())
		}
		if err := g.expr(x.X); err != nil {
			return err
		}
		if err := g.expr(x.Y); err != nil {
			return err
		}
		for _, op := range ops {
			c.emit(op, "")
		}
		return nil

	case *syntax.Unary:
		return g.unary(x)

	case *syntax.Call:
		return g.call(x)
	}

	return errorf(ErrNoValue, x, "")
}

func (g *generator) unary(x *syntax.Unary) error {
	c := g.top()

	switch {
	case x.Op == syntax.Sub && g.typ == wat.I32:
		c.emit(wat.I32Const, "0")
		if isMinInt32Magnitude(x.X) {
			// 0 - (-2147483648) wraps to -2147483648.
			c.emit(wat.I32Const, strconv.Itoa(math.MinInt32))
		} else if err := g.expr(x.X); err != nil {
			return err
		}
		c.emit(wat.I32Sub, "")

	case x.Op == syntax.Sub:
		if err := g.expr(x.X); err != nil {
			return err
		}
		c.emit(wat.F64Neg, "")

	case x.Op == syntax.Not && g.typ == wat.I32:
		if err := g.expr(x.X); err != nil {
			return err
		}
		c.emit(wat.I32Eqz, "")

	case x.Op == syntax.Not:
		if err := g.expr(x.X); err != nil {
			return err
		}
		c.emit(wat.F64Const, "0")
		c.emit(wat.F64Eq, "")
		c.emit(wat.F64ConvertI32U, "")

	default:
		return errorf(ErrUnsupportedType, x, x.Op.String())
	}
	return nil
}

// isMinInt32Magnitude reports whether x is the literal 2147483648, which
// only fits an i32 when negated.
func isMinInt32Magnitude(x syntax.Expr) bool {
	lit, ok := x.(*syntax.Literal)
	if !ok || lit.Kind != syntax.NumberLit {
		return false
	}
	n, err := strconv.ParseInt(lit.Value, 10, 64)
	return err == nil && n == -math.MinInt32
}

// call generates a direct call. The callee must name a defined function.
func (g *generator) call(x *syntax.Call) error {
	callee, ok := x.Callee.(*syntax.LetGet)
	if !ok {
		return errorf(ErrNotCallable, x, syntax.ExprString(x.Callee))
	}

	arity, ok := g.funcs[callee.Name]
	if !ok {
		if g.resolve(callee.Name) != scopeNone {
			return errorf(ErrNotCallable, x, callee.Name)
		}
		return errorf(ErrUnknownFunc, x, callee.Name)
	}
	if arity != len(x.Args) {
		return errorf(ErrArity, x, callee.Name)
	}

	for _, arg := range x.Args {
		if err := g.expr(arg); err != nil {
			return err
		}
	}
	g.top().emit(wat.Call, callee.Name)
	return nil
}

func (g *generator) literal(x *syntax.Literal) error {
	c := g.top()
	op := constOp(g.typ)

	switch x.Kind {
	case syntax.NumberLit:
		if g.typ == wat.I32 {
			if _, err := strconv.ParseInt(x.Value, 10, 32); err != nil {
				return errorf(ErrBadLiteral, x, x.Value)
			}
		} else if _, err := strconv.ParseFloat(x.Value, 64); err != nil {
			return errorf(ErrBadLiteral, x, x.Value)
		}
		c.emit(op, x.Value)

	case syntax.TrueLit:
		c.emit(op, "1")

	case syntax.FalseLit:
		c.emit(op, "0")

	case syntax.StringLit:
		c.emit(op, strconv.Itoa(g.stringOffset(x.Value)))

	default:
		return errorf(ErrBadLiteral, x, x.Value)
	}
	return nil
}

// stringOffset returns the memory offset of the zero-terminated data
// segment holding s, adding the segment on first use.
func (g *generator) stringOffset(s string) int {
	if off, ok := g.strs[s]; ok {
		return off
	}
	off := g.dataEnd
	b := make([]byte, 0, len(s)+1)
	b = append(append(b, s...), 0)

	g.strs[s] = off
	g.dataEnd += len(b)
	g.mod.Data = append(g.mod.Data, wat.Data{Offset: off, Bytes: b})
	g.mod.Memory = true
	return off
}
