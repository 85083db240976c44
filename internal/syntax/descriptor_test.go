package syntax

import (
	"testing"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

func TestNewC99LookupKeyword(t *testing.T) {
	d := NewC99()

	cases := []struct {
		name string
		want token.Type
	}{
		{"int", token.INT_KW},
		{"return", token.RETURN},
		{"_Atomic", token.ATOMIC},
		{"__attribute__", token.ATTRIBUTE},
		{"typeof", token.TYPEOF},
	}
	for _, c := range cases {
		kind, ok := d.LookupKeyword(c.name)
		if !ok {
			t.Errorf("LookupKeyword(%q): not found", c.name)
			continue
		}
		if kind != c.want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", c.name, kind, c.want)
		}
	}

	if _, ok := d.LookupKeyword("foo"); ok {
		t.Errorf("LookupKeyword(%q) unexpectedly found", "foo")
	}
}

func TestMatchOperatorMaximalMunch(t *testing.T) {
	d := NewC99()

	cases := []struct {
		in       string
		wantText string
	}{
		{"<<=rest", "<<="},
		{"<<rest", "<<"},
		{"<rest", "<"},
		{"->rest", "->"},
		{"...rest", "..."},
		{"..rest", ""}, // ".." is not a valid operator prefix of "..."
	}
	for _, c := range cases {
		sym, ok := d.MatchOperator(c.in)
		if c.wantText == "" {
			if ok {
				t.Errorf("MatchOperator(%q) = %q, want no match", c.in, sym.Text)
			}
			continue
		}
		if !ok || sym.Text != c.wantText {
			t.Errorf("MatchOperator(%q) = %q, want %q", c.in, sym.Text, c.wantText)
		}
	}
}

func TestMatchPunctDoesNotOvermatch(t *testing.T) {
	d := NewC99()
	sym, ok := d.MatchPunct("(x)")
	if !ok || sym.Text != "(" || sym.Kind != token.LPAREN {
		t.Fatalf("MatchPunct(%q) = %+v, %v", "(x)", sym, ok)
	}
}

func TestIsBuiltinTypeName(t *testing.T) {
	for _, name := range []string{"size_t", "uint32_t", "FILE", "__builtin_va_list", "__builtin_frobnicate"} {
		if !IsBuiltinTypeName(name) {
			t.Errorf("IsBuiltinTypeName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"int", "MyStruct", "builtin_not_prefixed"} {
		if IsBuiltinTypeName(name) {
			t.Errorf("IsBuiltinTypeName(%q) = true, want false", name)
		}
	}
}

func TestIdentifierClassification(t *testing.T) {
	d := NewC99()
	if !d.IsIdentifierStart('_') || !d.IsIdentifierStart('a') {
		t.Errorf("expected '_' and 'a' to start identifiers")
	}
	if d.IsIdentifierStart('1') {
		t.Errorf("digits must not start identifiers")
	}
	if !d.IsIdentifierContinue('9') {
		t.Errorf("digits must continue identifiers")
	}
}
