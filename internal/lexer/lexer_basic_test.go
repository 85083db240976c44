package lexer

import (
	"strings"
	"testing"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New("test.c", []byte(src), nil)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func assertTypes(t *testing.T, toks []token.Token, want ...token.Type) {
	t.Helper()
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(want))
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Errorf("token %d: got %v, want %v", i, tok.Type, want[i])
		}
	}
}

func TestLexSimpleDeclaration(t *testing.T) {
	toks := tokenize(t, "int x = 1;")
	assertTypes(t, toks, token.INT_KW, token.IDENT, token.ASSIGN, token.INT, token.SEMI, token.EOF)
}

func TestLexKeywordsAreNotIdentifiers(t *testing.T) {
	toks := tokenize(t, "return while struct")
	assertTypes(t, toks, token.RETURN, token.WHILE, token.STRUCT, token.EOF)
}

func TestLexPositions(t *testing.T) {
	toks := tokenize(t, "int\nx;")
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("int: pos = %v", toks[0].Pos)
	}
	if toks[1].Pos.Line != 2 || toks[1].Pos.Column != 1 {
		t.Errorf("x: pos = %v", toks[1].Pos)
	}
}

func TestLexSkipsLineAndBlockComments(t *testing.T) {
	toks := tokenize(t, "int /* c */ x; // trailing\n")
	assertTypes(t, toks, token.INT_KW, token.IDENT, token.SEMI, token.EOF)
}

func TestLexIllegalCharacterRecovers(t *testing.T) {
	l := New("t.c", []byte("int x `@` y;"), nil)
	var kinds []token.Type
	for {
		tok := l.Next()
		kinds = append(kinds, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Errors) == 0 {
		t.Fatalf("expected illegal-character errors, got none")
	}
	// the lexer must keep producing tokens after an illegal character
	foundIdent := false
	for _, k := range kinds {
		if k == token.IDENT {
			foundIdent = true
		}
	}
	if !foundIdent {
		t.Errorf("expected scanning to continue past illegal characters")
	}
}

// Concatenating every token's lexeme reproduces the input modulo
// whitespace, comments, and line markers — including string literals,
// whose raw lexeme keeps quotes and escapes.
func TestLexemesRoundTripInput(t *testing.T) {
	src := `int main(void) { /* c */ puts("a\n"); return 'x'; } // done`
	toks := tokenize(t, src)

	var got strings.Builder
	for _, tok := range toks {
		got.WriteString(tok.Literal)
	}

	var want strings.Builder
	stripped := `int main ( void ) { puts ( "a\n" ) ; return 'x' ; }`
	for _, field := range strings.Fields(stripped) {
		want.WriteString(field)
	}
	if got.String() != want.String() {
		t.Fatalf("lexeme concatenation = %q, want %q", got.String(), want.String())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("t.c", []byte("int x;"), nil)
	first := l.Peek(0)
	if first.Type != token.INT_KW {
		t.Fatalf("Peek(0) = %v, want INT_KW", first.Type)
	}
	second := l.Peek(1)
	if second.Type != token.IDENT {
		t.Fatalf("Peek(1) = %v, want IDENT", second.Type)
	}
	got := l.Next()
	if got.Type != token.INT_KW {
		t.Fatalf("Next() after Peek = %v, want INT_KW", got.Type)
	}
}

func TestSaveRestoreState(t *testing.T) {
	l := New("t.c", []byte("int x y;"), nil)
	_ = l.Next() // int
	snap := l.SaveState()
	a := l.Next() // x
	b := l.Next() // y
	l.RestoreState(snap)
	a2 := l.Next()
	b2 := l.Next()
	if a.Literal != a2.Literal || b.Literal != b2.Literal {
		t.Fatalf("restore mismatch: got (%s,%s) then (%s,%s)", a.Literal, b.Literal, a2.Literal, b2.Literal)
	}
}
