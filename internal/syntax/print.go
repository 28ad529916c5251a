package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints a labelled sub-node one level deeper.
func (p *printer) child(label string, n Expr) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) list(label string, list []Expr) {
	if len(list) == 0 {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	for _, x := range list {
		p.print(x)
	}
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		p.printf("Program\n")
		p.indent++
		for _, x := range n.List {
			p.print(x)
		}
		p.indent--

	case *Block:
		p.printf("Block %s\n", n.pos)
		p.indent++
		for _, x := range n.List {
			p.print(x)
		}
		p.indent--

	case *Binary:
		p.printf("Binary %s %s\n", n.Op, n.pos)
		p.indent++
		p.print(n.X)
		p.print(n.Y)
		p.indent--

	case *Unary:
		p.printf("Unary %s %s\n", n.Op, n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *LetAssign:
		p.printf("LetAssign %s %s\n", n.Name, n.pos)
		p.indent++
		p.child("Init", n.Init)
		p.indent--

	case *LetGet:
		p.printf("LetGet %s %s\n", n.Name, n.pos)

	case *LetSet:
		p.printf("LetSet %s %s\n", n.Name, n.pos)
		p.indent++
		p.child("Value", n.Value)
		p.indent--

	case *Print:
		p.printf("Print %s\n", n.pos)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *IfElse:
		p.printf("IfElse %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		if n.Else != nil {
			p.child("Else", n.Else)
		}
		p.indent--

	case *FuncDef:
		p.printf("FuncDef %s(%s) %s\n", n.Name, strings.Join(n.Params, ", "), n.pos)
		p.indent++
		p.list("Body", n.Body)
		p.indent--

	case *Call:
		p.printf("Call %s\n", n.pos)
		p.indent++
		p.child("Callee", n.Callee)
		p.list("Args", n.Args)
		p.indent--

	case *Literal:
		p.printf("Literal %s %q %s\n", n.Kind, n.Value, n.pos)

	default:
		p.printf("%T\n", node)
	}
}

// ExprString returns a compact, fully parenthesized rendering of x,
// e.g. "(2 + (3 * 4))". It is meant for tests and diagnostics.
func ExprString(x Expr) string {
	var b strings.Builder
	writeExpr(&b, x)
	return b.String()
}

func writeExpr(b *strings.Builder, x Expr) {
	switch n := x.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Binary:
		b.WriteByte('(')
		writeExpr(b, n.X)
		fmt.Fprintf(b, " %s ", n.Op)
		writeExpr(b, n.Y)
		b.WriteByte(')')
	case *Unary:
		b.WriteByte('(')
		b.WriteString(n.Op.String())
		writeExpr(b, n.X)
		b.WriteByte(')')
	case *LetGet:
		b.WriteString(n.Name)
	case *LetSet:
		fmt.Fprintf(b, "(%s = ", n.Name)
		writeExpr(b, n.Value)
		b.WriteByte(')')
	case *Call:
		writeExpr(b, n.Callee)
		b.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *Literal:
		if n.Kind == StringLit {
			fmt.Fprintf(b, "%q", n.Value)
		} else {
			b.WriteString(n.Value)
		}
	default:
		fmt.Fprintf(b, "%T", x)
	}
}
