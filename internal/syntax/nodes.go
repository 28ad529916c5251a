package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// Every construct in teal is an expression node; statements such as let,
// print and if are expressions that leave no value. All nodes implement Node.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Span // span of the node's first token
	aNode()    // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Span
}

func (n *node) Pos() Span { return n.pos }
func (n *node) aNode()    {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// ----------------------------------------------------------------------------
// Program

// Program is a parsed source text: top-level nodes in execution order.
type Program struct {
	node
	List []Expr
}

// ----------------------------------------------------------------------------
// Expressions

// Block represents a nested list: { List... }
// It does not open a scope; scoping is per function.
type Block struct {
	expr
	List []Expr
}

// Binary represents a binary operation: X Op Y
// Op is one of Sub, Add, Div, Mul, Eql, Neq, Gtr, Geq, Lss, Leq.
type Binary struct {
	expr
	X  Expr
	Op Token
	Y  Expr
}

// Unary represents a unary operation: Op X
// Op is Sub (negate) or Not.
type Unary struct {
	expr
	Op Token
	X  Expr
}

// LetAssign represents the first binding of a name: let Name = Init
type LetAssign struct {
	expr
	Name string
	Init Expr
}

// LetGet represents a read of a bound name.
type LetGet struct {
	expr
	Name string
}

// LetSet represents a write to an already bound name: Name = Value
type LetSet struct {
	expr
	Name  string
	Value Expr
}

// Print represents print Value (or puts Value).
type Print struct {
	expr
	Value Expr
}

// IfElse represents if Cond Then [else Else].
type IfElse struct {
	expr
	Cond Expr
	Then Expr
	Else Expr // nil if absent
}

// FuncDef represents fun Name(Params...) { Body... }
type FuncDef struct {
	expr
	Name   string
	Params []string
	Body   []Expr
}

// Call represents Callee(Args...)
type Call struct {
	expr
	Callee Expr
	Args   []Expr
}

// LitKind represents the kind of a literal.
type LitKind uint8

const (
	NumberLit LitKind = iota // 10, 2.5
	StringLit                // "hello"
	TrueLit                  // true
	FalseLit                 // false
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	NumberLit: "number",
	StringLit: "string",
	TrueLit:   "true",
	FalseLit:  "false",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= FalseLit {
		return litKindNames[k]
	}
	return "LitKind(?)"
}

// Literal represents a literal value.
// Value holds the source text of numbers and the contents of strings.
type Literal struct {
	expr
	Kind  LitKind
	Value string
}
