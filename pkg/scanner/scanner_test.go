package scanner

import (
	"reflect"
	"testing"

	"github.com/lemonberrylabs/golox/pkg/diag"
	"github.com/lemonberrylabs/golox/pkg/token"
)

func scan(t *testing.T, input string) ([]token.Token, *diag.Reporter) {
	t.Helper()
	r := diag.NewReporter(nil)
	return New(input, r).ScanTokens(), r
}

func types(tokens []token.Token) []token.TokenType {
	result := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		result[i] = tok.Type
	}
	return result
}

func TestPunctuators(t *testing.T) {
	tokens, r := scan(t, "(){};,+-*!===<=>=!=<>/.")
	if r.HadError() {
		t.Fatalf("unexpected errors: %v", r.Diagnostics())
	}

	want := []token.TokenType{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Semicolon, token.Comma, token.Plus, token.Minus, token.Star,
		token.BangEqual, token.EqualEqual, token.LessEqual, token.GreaterEqual,
		token.BangEqual, token.Less, token.Greater, token.Slash, token.Dot, token.EOF,
	}
	if got := types(tokens); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestKeywords(t *testing.T) {
	tokens, _ := scan(t, "and class else false for fun if nil or print return super this true var while")

	want := []token.TokenType{
		token.And, token.Class, token.Else, token.False, token.For, token.Fun, token.If,
		token.Nil, token.Or, token.Print, token.Return, token.Super, token.This,
		token.True, token.Var, token.While, token.EOF,
	}
	if got := types(tokens); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIdentifiers(t *testing.T) {
	tokens, _ := scan(t, "andy formless fo _ _123 _abc ab123\nabcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890_")

	wantLexemes := []string{"andy", "formless", "fo", "_", "_123", "_abc", "ab123",
		"abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890_"}
	if len(tokens) != len(wantLexemes)+1 {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wantLexemes)+1)
	}
	for i, lexeme := range wantLexemes {
		if tokens[i].Type != token.Identifier || tokens[i].Lexeme != lexeme {
			t.Errorf("token %d: got %s %q, want IDENTIFIER %q", i, tokens[i].Type, tokens[i].Lexeme, lexeme)
		}
	}
	if tokens[len(tokens)-2].Line != 2 {
		t.Errorf("last identifier on line %d, want 2", tokens[len(tokens)-2].Line)
	}
}

func TestNumbers(t *testing.T) {
	tokens, _ := scan(t, "123\n123.456\n.456\n123.")

	tests := []struct {
		tt      token.TokenType
		lexeme  string
		literal any
	}{
		{token.Number, "123", 123.0},
		{token.Number, "123.456", 123.456},
		{token.Dot, ".", nil},
		{token.Number, "456", 456.0},
		{token.Number, "123", 123.0},
		{token.Dot, ".", nil},
		{token.EOF, "", nil},
	}
	if len(tokens) != len(tests) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(tests))
	}
	for i, tt := range tests {
		tok := tokens[i]
		if tok.Type != tt.tt || tok.Lexeme != tt.lexeme || tok.Literal != tt.literal {
			t.Errorf("token %d: got {%s %q %v}, want {%s %q %v}",
				i, tok.Type, tok.Lexeme, tok.Literal, tt.tt, tt.lexeme, tt.literal)
		}
	}
}

func TestStrings(t *testing.T) {
	tokens, r := scan(t, "\"\"\n\"string\"\n\"multi\nline\"")
	if r.HadError() {
		t.Fatalf("unexpected errors: %v", r.Diagnostics())
	}

	wantLiterals := []string{"", "string", "multi\nline"}
	for i, want := range wantLiterals {
		if tokens[i].Type != token.String || tokens[i].Literal != want {
			t.Errorf("token %d: got %s %v, want STRING %q", i, tokens[i].Type, tokens[i].Literal, want)
		}
	}
	if eof := tokens[len(tokens)-1]; eof.Line != 4 {
		t.Errorf("EOF on line %d, want 4", eof.Line)
	}
}

func TestComments(t *testing.T) {
	tokens, r := scan(t, "// line comment\nvar /* block\ncomment */ x;")
	if r.HadError() {
		t.Fatalf("unexpected errors: %v", r.Diagnostics())
	}

	want := []token.TokenType{token.Var, token.Identifier, token.Semicolon, token.EOF}
	if got := types(tokens); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if tokens[1].Line != 3 {
		t.Errorf("identifier on line %d, want 3", tokens[1].Line)
	}
}

func TestErrorsDoNotStopScanning(t *testing.T) {
	tokens, r := scan(t, "var @ x # = \"open")

	ds := r.Diagnostics()
	if len(ds) != 3 {
		t.Fatalf("got %d diagnostics, want 3: %v", len(ds), ds)
	}
	wantMessages := []string{"Unexpected character.", "Unexpected character.", "Unterminated string."}
	for i, want := range wantMessages {
		if ds[i].Message != want || ds[i].Kind != diag.Lexical {
			t.Errorf("diagnostic %d: got %v, want lexical %q", i, ds[i], want)
		}
	}

	want := []token.TokenType{token.Var, token.Identifier, token.Equal, token.EOF}
	if got := types(tokens); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMultiByteCharactersReportedOnce(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"é", 1},
		{"var x = 1 € 2;", 1},
		{"😀😀", 2},
		{"\xff", 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, r := scan(t, tt.input)
			ds := r.Diagnostics()
			if len(ds) != tt.want {
				t.Fatalf("got %d diagnostics, want %d: %v", len(ds), tt.want, ds)
			}
			for _, d := range ds {
				if d.Message != MsgUnexpectedCharacter {
					t.Errorf("got %q, want %q", d.Message, MsgUnexpectedCharacter)
				}
			}
		})
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, r := scan(t, "print 1; /* never closed")
	ds := r.Diagnostics()
	if len(ds) != 1 || ds[0].Message != "Unterminated block comment." {
		t.Errorf("got %v, want one unterminated block comment error", ds)
	}
}

func TestScanIsDeterministic(t *testing.T) {
	inputs := []string{
		"fun f(a, b) { return a + b; } print f(1, 2);",
		"class A < B { init() { this.x = super.y; } }",
		"var s = \"x\ny\"; // trailing",
		"!@#$ 1.2.3 \"",
	}

	for _, input := range inputs {
		first, _ := scan(t, input)
		second, _ := scan(t, input)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("scanning %q twice produced different tokens", input)
		}
	}
}
