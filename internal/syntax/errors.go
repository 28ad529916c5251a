package syntax

import (
	"errors"
	"fmt"
)

// Lexical error kinds.
var (
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrUnexpectedEOF      = errors.New("unexpected end of input")
)

// Parse error kinds.
var (
	ErrExpected        = errors.New("expected token")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrExpectedPrimary = errors.New("expected primary expression")
	ErrNestedFunc      = errors.New("function definitions cannot be nested")
)

// LexError represents a lexical error.
type LexError struct {
	Err  error // one of the lexical error kinds
	Span Span
	Char rune // offending character for ErrUnexpectedChar
}

func (e *LexError) Error() string {
	if e.Err == ErrUnexpectedChar {
		return fmt.Sprintf("line %d: %v %q", e.Span.Line, e.Err, e.Char)
	}
	return fmt.Sprintf("line %d: %v", e.Span.Line, e.Err)
}

func (e *LexError) Unwrap() error { return e.Err }

// ParseError represents a syntax error.
// Want is only meaningful for ErrExpected.
type ParseError struct {
	Err  error // one of the parse error kinds
	Want Token
	Got  Token
	Line int
}

func (e *ParseError) Error() string {
	switch e.Err {
	case ErrExpected:
		return fmt.Sprintf("line %d: expected %s, found %s", e.Line, e.Want, e.Got)
	case ErrUnexpectedEOF:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v %s", e.Line, e.Err, e.Got)
}

func (e *ParseError) Unwrap() error { return e.Err }
