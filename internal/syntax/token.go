// Package syntax implements lexical and syntactic analysis for the teal language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF Token = iota // end of input

	// Names and literals
	_Name   // identifier: foo, sum, x1
	_Number // 10, 3.25
	_String // "hello" (interior text only)

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Dot    // .
	_Semi   // ;

	// Operators
	_Sub    // -
	_Add    // +
	_Mul    // *
	_Div    // /
	_Not    // !
	_Neq    // !=
	_Assign // =
	_Eql    // ==
	_Lss    // <
	_Leq    // <=
	_Gtr    // >
	_Geq    // >=

	// Keywords
	_Else
	_False
	_Fun
	_If
	_Let
	_Print
	_Puts
	_True

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF: "EOF",

	_Name:   "NAME",
	_Number: "NUMBER",
	_String: "STRING",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Dot:    ".",
	_Semi:   ";",

	_Sub:    "-",
	_Add:    "+",
	_Mul:    "*",
	_Div:    "/",
	_Not:    "!",
	_Neq:    "!=",
	_Assign: "=",
	_Eql:    "==",
	_Lss:    "<",
	_Leq:    "<=",
	_Gtr:    ">",
	_Geq:    ">=",

	_Else:  "else",
	_False: "false",
	_Fun:   "fun",
	_If:    "if",
	_Let:   "let",
	_Print: "print",
	_Puts:  "puts",
	_True:  "true",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Else && t <= _True
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Sub && t <= _Geq
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// Exported tokens for packages that switch on operators.
const (
	EOF    Token = _EOF
	Name   Token = _Name
	Number Token = _Number
	String Token = _String

	Sub Token = _Sub // -
	Add Token = _Add // +
	Mul Token = _Mul // *
	Div Token = _Div // /
	Not Token = _Not // !
	Neq Token = _Neq // !=
	Eql Token = _Eql // ==
	Lss Token = _Lss // <
	Leq Token = _Leq // <=
	Gtr Token = _Gtr // >
	Geq Token = _Geq // >=
)

// keywords maps keyword strings to their token type.
// A keyword lexeme never becomes a _Name.
var keywords = map[string]Token{
	"else":  _Else,
	"false": _False,
	"fun":   _Fun,
	"if":    _If,
	"let":   _Let,
	"print": _Print,
	"puts":  _Puts,
	"true":  _True,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

// Item is a single scanned token: its kind, the source text it covers
// and where it came from.
type Item struct {
	Tok  Token
	Lit  string // lexeme; interior text for strings, "" for EOF
	Span Span
}

func (it Item) String() string {
	if it.Tok == _Name || it.Tok == _Number || it.Tok == _String {
		return fmt.Sprintf("%s %q", it.Tok, it.Lit)
	}
	return it.Tok.String()
}
