package lexer

import "testing"

func TestNextBasicTokens(t *testing.T) {
	input := `. | := ^ ( ) [ ] #( ----`

	tests := []struct {
		typ TokenType
		lit string
	}{
		{Period, "."},
		{Pipe, "|"},
		{Assign, ":="},
		{Caret, "^"},
		{LParen, "("},
		{RParen, ")"},
		{LBracket, "["},
		{RBracket, "]"},
		{HashLParen, "#("},
		{Dashes, "----"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Type != tt.typ {
			t.Fatalf("tests[%d] - type wrong. expected=%s, got=%s", i, tt.typ, tok.Type)
		}
		if tok.Literal != tt.lit {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.lit, tok.Literal)
		}
	}
}

func TestNextNumbersAndOperators(t *testing.T) {
	input := `3 3.14 - + <= ~= ->`

	tests := []struct {
		typ TokenType
		lit string
	}{
		{Int, "3"},
		{Float, "3.14"},
		{BinaryOp, "-"},
		{BinaryOp, "+"},
		{BinaryOp, "<="},
		{BinaryOp, "~="},
		{BinaryOp, "->"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Type != tt.typ || tok.Literal != tt.lit {
			t.Fatalf("tests[%d] - got=%s(%q), expected=%s(%q)", i, tok.Type, tok.Literal, tt.typ, tt.lit)
		}
	}
}

func TestNextIdentifiersAndKeywords(t *testing.T) {
	input := `self at:put: foo bar42 _under`

	tests := []struct {
		typ TokenType
		lit string
	}{
		{Identifier, "self"},
		{Keyword, "at:"},
		{Keyword, "put:"},
		{Identifier, "foo"},
		{Identifier, "bar42"},
		{Identifier, "_under"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Type != tt.typ || tok.Literal != tt.lit {
			t.Fatalf("tests[%d] - got=%s(%q), expected=%s(%q)", i, tok.Type, tok.Literal, tt.typ, tt.lit)
		}
	}
}

func TestNextStringsAndSymbols(t *testing.T) {
	input := `'hello' 'it''s' #foo #at:put: #+`

	tests := []struct {
		typ TokenType
		lit string
	}{
		{String, "hello"},
		{String, "it's"},
		{Symbol, "foo"},
		{Symbol, "at:put:"},
		{Symbol, "+"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Type != tt.typ || tok.Literal != tt.lit {
			t.Fatalf("tests[%d] - got=%s(%q), expected=%s(%q)", i, tok.Type, tok.Literal, tt.typ, tt.lit)
		}
	}
}

func TestNextSkipsComments(t *testing.T) {
	input := `"a comment" 1 "another" + 2`

	tests := []struct {
		typ TokenType
		lit string
	}{
		{Int, "1"},
		{BinaryOp, "+"},
		{Int, "2"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Type != tt.typ || tok.Literal != tt.lit {
			t.Fatalf("tests[%d] - got=%s(%q), expected=%s(%q)", i, tok.Type, tok.Literal, tt.typ, tt.lit)
		}
	}
}

func TestNextShortDashRunIsBinary(t *testing.T) {
	input := `1 -- 2 ---`

	l := New(input)
	tok := l.Next()
	if tok.Type != Int {
		t.Fatalf("expected Int, got %s", tok.Type)
	}
	tok = l.Next()
	if tok.Type != BinaryOp || tok.Literal != "--" {
		t.Fatalf("expected BinaryOp(--), got %s(%q)", tok.Type, tok.Literal)
	}
}
