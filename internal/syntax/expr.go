package syntax

// prec is an operator binding strength; higher binds tighter.
type prec int

// Precedence levels, lowest to highest.
const (
	precNone prec = iota
	precAssign     // =
	precOr         // reserved: the language has no logical operators yet
	precAnd        // reserved
	precEquality   // == !=
	precComparison // < <= > >=
	precTerm       // + -
	precFactor     // * /
	precUnary      // ! -
	precCall       // ( .
	precPrimary
)

// precedence returns the infix precedence of t, or precNone if t
// cannot continue an expression. _Not gets precUnary, so the infix step
// reports it as unexpected.
func precedence(t Token) prec {
	switch t {
	case _Assign:
		return precAssign
	case _Eql, _Neq:
		return precEquality
	case _Lss, _Leq, _Gtr, _Geq:
		return precComparison
	case _Add, _Sub:
		return precTerm
	case _Mul, _Div:
		return precFactor
	case _Not:
		return precUnary
	case _Lparen, _Dot:
		return precCall
	}
	return precNone
}

// expr parses an expression.
func (p *Parser) expr() (Expr, error) {
	return p.exprPrec(precNone)
}

// exprPrec parses an expression whose infix operators all bind tighter
// than min. Implements Pratt parsing / precedence climbing.
func (p *Parser) exprPrec(min prec) (Expr, error) {
	x, err := p.prefix(min < precAssign)
	if err != nil {
		return nil, err
	}

	for !p.atEOF() {
		if precedence(p.tok()) <= min {
			break
		}
		if x, err = p.infix(x); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// prefix parses an expression in prefix position. A name followed by '='
// is an assignment only when canAssign is set, so "a + b = 1" is rejected.
func (p *Parser) prefix(canAssign bool) (Expr, error) {
	switch p.tok() {
	case _Number, _String, _True, _False, _Name:
		return p.primary(canAssign)
	case _Not, _Sub:
		return p.unary()
	case _Lparen:
		return p.paren()
	case _EOF:
		return nil, p.errorf(ErrUnexpectedEOF, p.peek())
	}
	return nil, p.errorf(ErrExpectedPrimary, p.peek())
}

// infix parses the continuation of x at the current token.
func (p *Parser) infix(x Expr) (Expr, error) {
	switch p.tok() {
	case _Eql, _Neq, _Lss, _Leq, _Gtr, _Geq, _Add, _Sub, _Mul, _Div:
		return p.binary(x)
	case _Lparen:
		return p.call(x)
	}
	return nil, p.errorf(ErrUnexpectedToken, p.peek())
}

// primary parses a literal, a name, or an assignment Name = Expr.
func (p *Parser) primary(canAssign bool) (Expr, error) {
	it, err := p.next()
	if err != nil {
		return nil, err
	}

	switch it.Tok {
	case _Number:
		return newLiteral(NumberLit, it.Lit, it.Span), nil
	case _String:
		return newLiteral(StringLit, it.Lit, it.Span), nil
	case _True:
		return newLiteral(TrueLit, it.Lit, it.Span), nil
	case _False:
		return newLiteral(FalseLit, it.Lit, it.Span), nil
	case _Name:
		if canAssign && p.got(_Assign) {
			s := &LetSet{Name: it.Lit}
			s.pos = it.Span
			if s.Value, err = p.expr(); err != nil {
				return nil, err
			}
			return s, nil
		}
		x := &LetGet{Name: it.Lit}
		x.pos = it.Span
		return x, nil
	}
	return nil, p.errorf(ErrExpectedPrimary, it)
}

func newLiteral(kind LitKind, value string, span Span) *Literal {
	lit := &Literal{Kind: kind, Value: value}
	lit.pos = span
	return lit
}

// unary parses -X or !X.
func (p *Parser) unary() (Expr, error) {
	op, _ := p.next()

	x, err := p.exprPrec(precUnary)
	if err != nil {
		return nil, err
	}
	u := &Unary{Op: op.Tok, X: x}
	u.pos = op.Span
	return u, nil
}

// paren parses (X). Grouping leaves no node behind.
func (p *Parser) paren() (Expr, error) {
	p.next()
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.want(_Rparen); err != nil {
		return nil, err
	}
	return x, nil
}

// binary parses the operator and right operand of X op Y.
// The right operand is parsed at the operator's own level, which makes
// operators of equal precedence associate to the left.
func (p *Parser) binary(x Expr) (Expr, error) {
	op, _ := p.next()

	y, err := p.exprPrec(precedence(op.Tok))
	if err != nil {
		return nil, err
	}
	b := &Binary{X: x, Op: op.Tok, Y: y}
	b.pos = x.Pos()
	return b, nil
}

// call parses Callee(args...)
func (p *Parser) call(callee Expr) (Expr, error) {
	if _, err := p.want(_Lparen); err != nil {
		return nil, err
	}

	c := &Call{Callee: callee}
	c.pos = callee.Pos()

	for p.tok() != _Rparen && !p.atEOF() {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, arg)

		if !p.got(_Comma) {
			break
		}
	}

	if _, err := p.want(_Rparen); err != nil {
		return nil, err
	}
	return c, nil
}
