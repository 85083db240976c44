package diag

import (
	"strings"
	"testing"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

func TestCollectorCountsOnlyErrors(t *testing.T) {
	c := NewCollector()
	c.Report(Diagnostic{Severity: SeverityWarning, Message: "a warning"})
	if c.HasErrors() {
		t.Fatal("a warning must not count as an error")
	}
	c.Errorf(KindUnexpectedToken, token.Position{Line: 1, Column: 1}, "unexpected %s", "}")
	if !c.HasErrors() || c.ErrorCount() != 1 {
		t.Fatalf("ErrorCount() = %d, want 1", c.ErrorCount())
	}
	if len(c.Diagnostics()) != 2 {
		t.Fatalf("Diagnostics() len = %d, want 2", len(c.Diagnostics()))
	}
}

func TestDiagnosticStringRendersCaret(t *testing.T) {
	d := Diagnostic{
		Severity:   SeverityError,
		Pos:        token.Position{Filename: "t.c", Line: 2, Column: 5},
		Message:    "unexpected token",
		SourceLine: "  int x",
	}
	s := d.String()
	if !strings.Contains(s, "t.c:2:5") {
		t.Errorf("expected position in output, got %q", s)
	}
	lines := strings.Split(s, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (message, source, caret), got %d: %q", len(lines), s)
	}
	caretCol := strings.Index(lines[2], "^")
	if caretCol != 4 {
		t.Errorf("caret at column %d, want 4 (0-indexed for Column=5)", caretCol)
	}
}
