package lexer

import (
	"testing"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

func TestLexDecimalInteger(t *testing.T) {
	toks := tokenize(t, "42;")
	if toks[0].Type != token.INT || toks[0].Value.Int != 42 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexHexInteger(t *testing.T) {
	toks := tokenize(t, "0x2A;")
	if toks[0].Type != token.INT || toks[0].Value.Int != 42 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexBinaryInteger(t *testing.T) {
	toks := tokenize(t, "0b101010;")
	if toks[0].Type != token.INT || toks[0].Value.Int != 42 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexOctalInteger(t *testing.T) {
	toks := tokenize(t, "052;")
	if toks[0].Type != token.INT || toks[0].Value.Int != 42 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexUnsignedLongSuffix(t *testing.T) {
	toks := tokenize(t, "42UL;")
	v := toks[0].Value
	if !v.IsUint || !v.IsLong {
		t.Fatalf("suffix flags = %+v", v)
	}
}

func TestLexFloatLiteral(t *testing.T) {
	toks := tokenize(t, "3.14;")
	if toks[0].Type != token.FLOAT || toks[0].Value.Float != 3.14 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexScientificNotation(t *testing.T) {
	toks := tokenize(t, "1.5e3;")
	if toks[0].Type != token.FLOAT || toks[0].Value.Float != 1500 {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexLeadingDotFloat(t *testing.T) {
	toks := tokenize(t, ".5;")
	if toks[0].Type != token.FLOAT || toks[0].Value.Float != 0.5 {
		t.Fatalf("got %+v", toks[0])
	}
}
