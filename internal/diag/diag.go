// Package diag defines the structured diagnostics the core produces. It
// is deliberately a thin data type plus a collector: the diagnostic
// renderer that turns these into colored terminal output is the CLI's
// job, one layer up.
package diag

import (
	"fmt"
	"strings"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "diagnostic"
	}
}

// Kind names the specific error condition; each distinct failure mode
// gets its own kind so tooling can match on it.
type Kind string

const (
	KindLexical                Kind = "lexical"
	KindExpectedToken          Kind = "expected-token"
	KindUnexpectedToken        Kind = "unexpected-token"
	KindAbstractDeclaratorName Kind = "abstract-declarator-missing-name"
	KindUnterminatedAggregate  Kind = "unterminated-aggregate"
	KindMalformedCastType      Kind = "malformed-cast-type"
	KindMissingAttributeParen  Kind = "missing-attribute-paren"
	KindBreakOutsideLoop       Kind = "break-outside-loop"
	KindContinueOutsideLoop    Kind = "continue-outside-loop"
	KindUndefinedIdentifier    Kind = "undefined-identifier"
	KindInvalidLValue          Kind = "invalid-lvalue"
	KindInvalidAddressOf       Kind = "invalid-address-of"
	KindInvalidDereference     Kind = "invalid-dereference"
	KindCallOfNonFunction      Kind = "call-of-non-function"
	KindUnsupportedStandard    Kind = "unsupported-standard-feature"
	KindOther                  Kind = "error"
)

// Diagnostic is one reported error, warning, or note.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Pos      token.Position
	Message  string
	// SourceLine, when non-empty, is rendered under the message with a
	// caret under Pos.Column.
	SourceLine string
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s: %s", d.Pos, d.Severity, d.Message)
	if d.SourceLine != "" {
		sb.WriteByte('\n')
		sb.WriteString(d.SourceLine)
		sb.WriteByte('\n')
		col := d.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", col-1))
		sb.WriteByte('^')
	}
	return sb.String()
}

// Collector accumulates diagnostics and counts errors; each pipeline
// stage checks the count before the next stage begins.
type Collector struct {
	diags      []Diagnostic
	errorCount int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report records a diagnostic, counting it if it is an error.
func (c *Collector) Report(d Diagnostic) {
	c.diags = append(c.diags, d)
	if d.Severity == SeverityError {
		c.errorCount++
	}
}

// Errorf is a convenience wrapper that reports an error-severity
// diagnostic of the given kind.
func (c *Collector) Errorf(kind Kind, pos token.Position, format string, args ...any) {
	c.Report(Diagnostic{Severity: SeverityError, Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// ErrorCount returns the number of error-severity diagnostics reported so
// far.
func (c *Collector) ErrorCount() int {
	return c.errorCount
}

// HasErrors reports whether any error-severity diagnostic was reported.
func (c *Collector) HasErrors() bool {
	return c.errorCount > 0
}

// Diagnostics returns all diagnostics reported so far, in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}
