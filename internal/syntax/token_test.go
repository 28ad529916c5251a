package syntax

import "testing"

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		// Special tokens
		{_EOF, "EOF"},

		// Names and literals
		{_Name, "NAME"},
		{_Number, "NUMBER"},
		{_String, "STRING"},

		// Delimiters
		{_Lparen, "("},
		{_Rparen, ")"},
		{_Lbrack, "["},
		{_Rbrack, "]"},
		{_Lbrace, "{"},
		{_Rbrace, "}"},
		{_Comma, ","},
		{_Dot, "."},
		{_Semi, ";"},

		// Operators
		{_Sub, "-"},
		{_Add, "+"},
		{_Mul, "*"},
		{_Div, "/"},
		{_Not, "!"},
		{_Neq, "!="},
		{_Assign, "="},
		{_Eql, "=="},
		{_Lss, "<"},
		{_Leq, "<="},
		{_Gtr, ">"},
		{_Geq, ">="},

		// Keywords
		{_Else, "else"},
		{_False, "false"},
		{_Fun, "fun"},
		{_If, "if"},
		{_Let, "let"},
		{_Print, "print"},
		{_Puts, "puts"},
		{_True, "true"},

		// Out of range
		{tokenCount, "token(33)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.tok.String(); got != tt.want {
				t.Errorf("Token(%d).String() = %q, want %q", tt.tok, got, tt.want)
			}
		})
	}
}

func TestTokenNamesComplete(t *testing.T) {
	for tok := Token(0); tok < tokenCount; tok++ {
		if tokenNames[tok] == "" {
			t.Errorf("token %d has no name", tok)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	for word, tok := range keywords {
		if got := LookupKeyword(word); got != tok {
			t.Errorf("LookupKeyword(%q) = %v, want %v", word, got, tok)
		}
		if !tok.IsKeyword() {
			t.Errorf("%v.IsKeyword() = false", tok)
		}
		if tok.String() != word {
			t.Errorf("%v.String() = %q, want %q", tok, tok.String(), word)
		}
	}

	for _, ident := range []string{"x", "sum", "Let", "prints", "fun1", "iff"} {
		if got := LookupKeyword(ident); got != _Name {
			t.Errorf("LookupKeyword(%q) = %v, want NAME", ident, got)
		}
	}
}

func TestTokenPredicates(t *testing.T) {
	for tok := Token(0); tok < tokenCount; tok++ {
		wantOp := tok >= _Sub && tok <= _Geq
		if tok.IsOperator() != wantOp {
			t.Errorf("%v.IsOperator() = %v, want %v", tok, tok.IsOperator(), wantOp)
		}
		if tok.IsEOF() != (tok == _EOF) {
			t.Errorf("%v.IsEOF() = %v", tok, tok.IsEOF())
		}
	}
}
