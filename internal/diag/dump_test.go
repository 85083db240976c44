package diag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

func TestWriteSidecarDump(t *testing.T) {
	dir := t.TempDir()
	toks := TokensForDump([]token.Token{
		{Type: token.INT_KW, Literal: "int", Pos: token.Position{Line: 1, Column: 1}},
		{Type: token.IDENT, Literal: "x", Pos: token.Position{Line: 1, Column: 5}},
	})
	diags := []Diagnostic{
		{Severity: SeverityError, Kind: KindUnexpectedToken, Pos: token.Position{Line: 1, Column: 5}, Message: "unexpected token"},
	}

	path, err := WriteSidecarDump(dir, "main.c", toks, `{"kind":"TranslationUnit"}`, diags)
	if err != nil {
		t.Fatalf("WriteSidecarDump: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("dump written outside dir: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	doc := string(data)

	if got := gjson.Get(doc, "tokens.0.literal").String(); got != "int" {
		t.Errorf("tokens.0.literal = %q, want %q", got, "int")
	}
	if got := gjson.Get(doc, "tokens.1.line").Int(); got != 1 {
		t.Errorf("tokens.1.line = %d, want 1", got)
	}
	if got := gjson.Get(doc, "diagnostics.0.kind").String(); got != string(KindUnexpectedToken) {
		t.Errorf("diagnostics.0.kind = %q, want %q", got, KindUnexpectedToken)
	}
	if got := gjson.Get(doc, "ast").String(); got == "" {
		t.Errorf("expected a non-empty ast field")
	}
}

func TestWriteSidecarDumpNamesAreCollisionFree(t *testing.T) {
	dir := t.TempDir()
	p1, err := WriteSidecarDump(dir, "main.c", nil, "", nil)
	if err != nil {
		t.Fatalf("WriteSidecarDump: %v", err)
	}
	p2, err := WriteSidecarDump(dir, "main.c", nil, "", nil)
	if err != nil {
		t.Fatalf("WriteSidecarDump: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("expected distinct dump filenames, got %q twice", p1)
	}
}
