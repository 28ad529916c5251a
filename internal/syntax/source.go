package syntax

import (
	"unicode"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// It walks UTF-8 source text and provides character-by-character access
// with one extra character of lookahead.
type source struct {
	buf string // source text

	// Position tracking
	line int // line of ch (1-based)

	// Current state
	ch   rune // current character, -1 at EOF
	offs int  // byte offset of ch
	next int  // byte offset just past ch
}

// init resets the reader to the start of text.
func (s *source) init(text string) {
	s.buf = text
	s.line = 1
	s.offs = 0
	s.next = 0
	s.ch = -1
	s.read()
}

// read decodes the character at s.next into s.ch.
func (s *source) read() {
	s.offs = s.next
	if s.next >= len(s.buf) {
		s.ch = -1
		return
	}
	r, width := utf8.DecodeRuneInString(s.buf[s.next:])
	s.ch = r
	s.next += width
}

// nextch consumes the current character.
// It fails with ErrUnexpectedEOF if there is nothing left to consume.
func (s *source) nextch() error {
	if s.ch < 0 {
		return &LexError{Err: ErrUnexpectedEOF, Span: NewSpan(s.offs, s.offs, s.line)}
	}
	if s.ch == '\n' {
		s.line++
	}
	s.read()
	return nil
}

// peek returns the character after the current one, or -1.
func (s *source) peek() rune {
	if s.next >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s.buf[s.next:])
	return r
}

// atEOF reports whether every character has been consumed.
func (s *source) atEOF() bool {
	return s.ch < 0
}

// Character classification helpers

// isLetter reports whether r can start an identifier.
func isLetter(r rune) bool {
	return r >= 0 && unicode.IsLetter(r)
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isAlnum reports whether r can continue an identifier.
func isAlnum(r rune) bool {
	return isLetter(r) || r >= 0 && unicode.IsDigit(r)
}

// isWhitespace reports whether r is skipped between tokens.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
