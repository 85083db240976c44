// Package parser implements the recursive-descent C parser: one-token
// lookahead for most productions, plus index snapshot/restore for cast
// disambiguation.
package parser

import (
	"fmt"

	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/pkg/ast"
	"github.com/nanoc-lang/nanoc/pkg/token"
)

// Parser holds the cursor, the mutable side tables in ParseContext, and
// panic-mode/error-count bookkeeping.
type Parser struct {
	cur      *TokenCursor
	ctx      *ParseContext
	diags    *diag.Collector
	standard Standard

	panicMode         bool
	consecutiveErrors int

	loopDepth   int
	switchDepth int
}

// New builds a Parser over a complete, EOF-terminated token slice.
func New(toks []token.Token, standard Standard, diags *diag.Collector) *Parser {
	if diags == nil {
		diags = diag.NewCollector()
	}
	return &Parser{
		cur:      NewTokenCursor(toks),
		ctx:      NewParseContext(),
		diags:    diags,
		standard: standard,
	}
}

// Parse drives the whole grammar and returns the resulting translation
// unit and the number of errors reported.
func Parse(toks []token.Token, standard Standard, diags *diag.Collector) (*ast.TranslationUnit, int) {
	p := New(toks, standard, diags)
	return p.ParseTranslationUnit(), p.diags.ErrorCount()
}

// Diagnostics exposes the collector so a caller (the CLI, or a sidecar
// dump writer) can render or persist what was reported.
func (p *Parser) Diagnostics() *diag.Collector { return p.diags }

func (p *Parser) reportSyntaxError(kind string, pos token.Position, format string, args ...any) {
	p.diags.Report(diag.Diagnostic{
		Severity: diag.SeverityError,
		Kind:     diag.Kind(kind),
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// expect consumes the current token if it has kind k, else reports a
// missing-expected-punctuation diagnostic and returns the zero Token.
func (p *Parser) expect(k token.Type) (token.Token, bool) {
	if p.cur.Is(k) {
		p.resetErrorStreak()
		return p.cur.Advance(), true
	}
	p.errorf(string(diag.KindExpectedToken), "expected %s, found %s", k, p.cur.Current().Type)
	return token.Token{}, false
}

// ParseTranslationUnit drives the top-level external-declaration loop
// with a stall detector: if an external-declaration attempt makes no
// token-position progress, force an advance so the loop is guaranteed to
// terminate on any input.
func (p *Parser) ParseTranslationUnit() *ast.TranslationUnit {
	startPos := token.Position{Line: 1, Column: 1}
	if !p.cur.AtEOF() {
		startPos = p.cur.Current().Pos
	}

	var decls []ast.Decl
	for !p.cur.AtEOF() {
		before := p.cur.Mark()
		if d := p.parseExternalDeclaration(); d != nil {
			decls = append(decls, d)
		}
		if p.cur.Mark() == before {
			// No production consumed anything: guarantee forward progress.
			p.cur.Advance()
		}
	}
	return ast.NewTranslationUnit(startPos, decls)
}
