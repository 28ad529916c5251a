package syntax

// Parser performs syntax analysis over a scanned token sequence.
// The first error aborts parsing; there is no recovery.
type Parser struct {
	items []Item
	off   int // index of the current token

	// Context tracking
	fnest int // function nesting depth (0 = top-level)
}

// NewParser creates a new Parser over items, normally the result of Lex.
func NewParser(items []Item) *Parser {
	return &Parser{items: items}
}

// Parse lexes and parses src.
func Parse(src string) (*Program, error) {
	items, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return NewParser(items).Parse()
}

// ----------------------------------------------------------------------------
// Token navigation

// peek returns the current token without consuming it.
// Past the end of the sequence it reports EOF.
func (p *Parser) peek() Item {
	if p.off < len(p.items) {
		return p.items[p.off]
	}
	var span Span
	if n := len(p.items); n > 0 {
		last := p.items[n-1].Span
		span = NewSpan(last.End, last.End, last.Line)
	}
	return Item{Tok: _EOF, Span: span}
}

// tok returns the kind of the current token.
func (p *Parser) tok() Token {
	return p.peek().Tok
}

// next consumes and returns the current token.
// Consuming EOF is an error.
func (p *Parser) next() (Item, error) {
	it := p.peek()
	if it.Tok == _EOF {
		return it, p.errorf(ErrUnexpectedEOF, it)
	}
	p.off++
	return it, nil
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok() == tok && tok != _EOF {
		p.off++
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, it fails with ErrExpected.
func (p *Parser) want(tok Token) (Item, error) {
	it := p.peek()
	if it.Tok != tok {
		return it, &ParseError{Err: ErrExpected, Want: tok, Got: it.Tok, Line: it.Span.Line}
	}
	p.off++
	return it, nil
}

// atEOF reports whether all tokens but EOF have been consumed.
func (p *Parser) atEOF() bool {
	return p.tok().IsEOF()
}

// errorf builds a parse error of the given kind at it.
func (p *Parser) errorf(kind error, it Item) error {
	return &ParseError{Err: kind, Got: it.Tok, Line: it.Span.Line}
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses the whole token sequence into a Program.
func (p *Parser) Parse() (*Program, error) {
	prog := &Program{}
	prog.pos = p.peek().Span

	for !p.atEOF() {
		x, err := p.decl()
		if err != nil {
			return nil, err
		}
		prog.List = append(prog.List, x)
	}

	return prog, nil
}

// ----------------------------------------------------------------------------
// Declarations

// decl parses one top-level construct.
func (p *Parser) decl() (Expr, error) {
	switch p.tok() {
	case _Let:
		return p.letDecl()
	case _Fun:
		return p.funDecl()
	case _Print, _Puts:
		return p.printStmt()
	case _If:
		return p.ifStmt()
	case _Lbrace:
		return p.block()
	default:
		return p.exprStmt()
	}
}

// letDecl parses: let Name [= Expr] [;]
// A bare declaration binds the number 0.
func (p *Parser) letDecl() (Expr, error) {
	kw, _ := p.want(_Let)

	name, err := p.name()
	if err != nil {
		return nil, err
	}

	d := &LetAssign{Name: name}
	d.pos = kw.Span

	if p.got(_Assign) {
		d.Init, err = p.exprStmt()
		if err != nil {
			return nil, err
		}
		return d, nil
	}

	if _, err := p.want(_Semi); err != nil {
		return nil, err
	}
	zero := &Literal{Kind: NumberLit, Value: "0"}
	zero.pos = kw.Span
	d.Init = zero
	return d, nil
}

// funDecl parses: fun Name(a, b, ...) { Body... }
func (p *Parser) funDecl() (Expr, error) {
	kw, _ := p.want(_Fun)
	if p.fnest > 0 {
		return nil, p.errorf(ErrNestedFunc, kw)
	}

	name, err := p.name()
	if err != nil {
		return nil, err
	}

	d := &FuncDef{Name: name}
	d.pos = kw.Span

	if d.Params, err = p.paramList(); err != nil {
		return nil, err
	}
	if _, err := p.want(_Lbrace); err != nil {
		return nil, err
	}

	p.fnest++
	d.Body, err = p.blockBody()
	p.fnest--
	if err != nil {
		return nil, err
	}
	return d, nil
}

// paramList parses (a, b, ...)
func (p *Parser) paramList() ([]string, error) {
	if _, err := p.want(_Lparen); err != nil {
		return nil, err
	}

	var params []string
	for p.tok() != _Rparen && !p.atEOF() {
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		params = append(params, name)

		if !p.got(_Comma) {
			break
		}
	}

	if _, err := p.want(_Rparen); err != nil {
		return nil, err
	}
	return params, nil
}

// ----------------------------------------------------------------------------
// Statements

// printStmt parses: print Expr [;]
func (p *Parser) printStmt() (Expr, error) {
	kw, _ := p.next()

	x, err := p.exprStmt()
	if err != nil {
		return nil, err
	}
	s := &Print{Value: x}
	s.pos = kw.Span
	return s, nil
}

// ifStmt parses: if Cond Then [else Else]
// Both branches are single declarations, normally blocks.
func (p *Parser) ifStmt() (Expr, error) {
	kw, _ := p.want(_If)

	s := &IfElse{}
	s.pos = kw.Span

	var err error
	if s.Cond, err = p.expr(); err != nil {
		return nil, err
	}
	if s.Then, err = p.decl(); err != nil {
		return nil, err
	}
	if p.got(_Else) {
		if s.Else, err = p.decl(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// block parses { decls... }
func (p *Parser) block() (Expr, error) {
	lbrace, _ := p.want(_Lbrace)

	list, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	b := &Block{List: list}
	b.pos = lbrace.Span
	return b, nil
}

// blockBody parses declarations up to and including the closing brace.
func (p *Parser) blockBody() ([]Expr, error) {
	var list []Expr
	for p.tok() != _Rbrace && !p.atEOF() {
		x, err := p.decl()
		if err != nil {
			return nil, err
		}
		list = append(list, x)
	}

	if _, err := p.want(_Rbrace); err != nil {
		return nil, err
	}
	return list, nil
}

// exprStmt parses an expression followed by an optional semicolon.
func (p *Parser) exprStmt() (Expr, error) {
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.got(_Semi)
	return x, nil
}

// ----------------------------------------------------------------------------
// Helper methods

// name parses an identifier and returns its text.
func (p *Parser) name() (string, error) {
	it, err := p.want(_Name)
	if err != nil {
		return "", err
	}
	return it.Lit, nil
}
