package lexer

import (
	"testing"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

func TestLexStringLiteral(t *testing.T) {
	toks := tokenize(t, `"hello";`)
	if toks[0].Type != token.STRING || toks[0].Value.Str != "hello" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[0].Literal != `"hello"` {
		t.Fatalf("raw lexeme = %q, want the quoted source spelling", toks[0].Literal)
	}
}

// The raw lexeme keeps the source's escapes untouched; only the value
// payload is decoded.
func TestLexStringRawLexemePreservesEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb";`)
	if toks[0].Literal != `"a\nb"` {
		t.Fatalf("raw lexeme = %q", toks[0].Literal)
	}
	if toks[0].Value.Str != "a\nb" {
		t.Fatalf("decoded value = %q", toks[0].Value.Str)
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb\t\"c\"";`)
	want := "a\nb\t\"c\""
	if toks[0].Type != token.STRING || toks[0].Value.Str != want {
		t.Fatalf("got %q, want %q", toks[0].Value.Str, want)
	}
}

func TestLexStringHexEscape(t *testing.T) {
	toks := tokenize(t, `"\x41";`)
	if toks[0].Value.Str != "A" {
		t.Fatalf("got %q, want %q", toks[0].Value.Str, "A")
	}
}

func TestLexUnterminatedStringReportsError(t *testing.T) {
	l := New("t.c", []byte("\"abc"), nil)
	tok := l.Next()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("got %v", tok.Type)
	}
	if len(l.Errors) == 0 {
		t.Fatal("expected an unterminated-string error")
	}
}

func TestLexCharLiteral(t *testing.T) {
	toks := tokenize(t, `'a';`)
	if toks[0].Type != token.CHAR || toks[0].Value.Char != 'a' {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexCharEscape(t *testing.T) {
	toks := tokenize(t, `'\n';`)
	if toks[0].Type != token.CHAR || toks[0].Value.Char != '\n' {
		t.Fatalf("got %+v", toks[0])
	}
}
