package syntax

// Scanner performs lexical analysis on teal source code.
type Scanner struct {
	source // embedded character reader

	err error // first error; the scanner stops there
}

// NewScanner creates a new Scanner for the given source text.
func NewScanner(src string) *Scanner {
	s := &Scanner{}
	s.init(src)
	return s
}

// Lex scans src to the end and returns every token, EOF last.
// On error it returns the tokens scanned before the failure point.
func Lex(src string) ([]Item, error) {
	s := NewScanner(src)
	var items []Item
	for {
		it, err := s.Next()
		if err != nil {
			return items, err
		}
		items = append(items, it)
		if it.Tok == _EOF {
			return items, nil
		}
	}
}

// Next scans and returns the next token. Once the input is exhausted it
// keeps returning the EOF item; once an error occurred it keeps returning it.
func (s *Scanner) Next() (Item, error) {
	if s.err != nil {
		return Item{}, s.err
	}
	it, err := s.scan()
	if err != nil {
		s.err = err
		return Item{}, err
	}
	return it, nil
}

// scan produces one token, skipping whitespace and comments.
func (s *Scanner) scan() (Item, error) {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	if s.atEOF() {
		n := len(s.buf)
		return Item{Tok: _EOF, Span: NewSpan(n, n, s.line)}, nil
	}

	start, line := s.offs, s.line

	switch {
	case isLetter(s.ch):
		return s.scanIdent(start, line)
	case isDigit(s.ch):
		return s.scanNumber(start, line)
	case s.ch == '"':
		return s.scanString(start, line)
	}

	ch := s.ch
	if err := s.nextch(); err != nil {
		return Item{}, err
	}

	var tok Token
	switch ch {
	case '(':
		tok = _Lparen
	case ')':
		tok = _Rparen
	case '[':
		tok = _Lbrack
	case ']':
		tok = _Rbrack
	case '{':
		tok = _Lbrace
	case '}':
		tok = _Rbrace
	case ',':
		tok = _Comma
	case '.':
		tok = _Dot
	case ';':
		tok = _Semi
	case '+':
		tok = _Add
	case '-':
		tok = _Sub
	case '*':
		tok = _Mul
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			goto redo
		}
		tok = _Div
	case '!':
		tok = s.twoChar('=', _Neq, _Not)
	case '=':
		tok = s.twoChar('=', _Eql, _Assign)
	case '<':
		tok = s.twoChar('=', _Leq, _Lss)
	case '>':
		tok = s.twoChar('=', _Geq, _Gtr)
	default:
		return Item{}, &LexError{Err: ErrUnexpectedChar, Span: NewSpan(start, s.offs, line), Char: ch}
	}

	return s.item(tok, start, line), nil
}

// item builds a token covering buf[start:offs].
func (s *Scanner) item(tok Token, start, line int) Item {
	return Item{Tok: tok, Lit: s.buf[start:s.offs], Span: NewSpan(start, s.offs, line)}
}

// twoChar consumes next and returns long if the current character is next,
// otherwise it leaves the input alone and returns short.
func (s *Scanner) twoChar(next rune, long, short Token) Token {
	if s.ch == next {
		s.nextch()
		return long
	}
	return short
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent(start, line int) (Item, error) {
	for isAlnum(s.ch) {
		s.nextch()
	}
	it := s.item(_Name, start, line)
	it.Tok = LookupKeyword(it.Lit)
	return it, nil
}

// scanNumber scans digits with an optional fractional part.
// The '.' is only consumed when a digit follows it, so "3." is 3 then '.'.
func (s *Scanner) scanNumber(start, line int) (Item, error) {
	for isDigit(s.ch) {
		s.nextch()
	}
	if s.ch == '.' && isDigit(s.peek()) {
		s.nextch()
		for isDigit(s.ch) {
			s.nextch()
		}
	}
	return s.item(_Number, start, line), nil
}

// scanString scans a string literal. The token carries the text between
// the quotes; there are no escape sequences.
func (s *Scanner) scanString(start, line int) (Item, error) {
	s.nextch() // skip opening "
	body := s.offs
	for s.ch != '"' {
		if s.atEOF() {
			return Item{}, &LexError{Err: ErrUnterminatedString, Span: NewSpan(start, s.offs, line)}
		}
		s.nextch()
	}
	it := Item{Tok: _String, Lit: s.buf[body:s.offs], Span: NewSpan(body, s.offs, line)}
	s.nextch() // skip closing "
	return it, nil
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	// Already consumed the first /
	for s.ch != '\n' && !s.atEOF() {
		s.nextch()
	}
}
