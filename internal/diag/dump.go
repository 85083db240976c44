package diag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

// DumpTokens describes one token for the sidecar debug dump.
type DumpTokens struct {
	Type    string
	Literal string
	Line    int
	Column  int
}

// WriteSidecarDump writes the structured debug dump produced when
// parsing fails: the token list plus the partial AST. The AST is passed
// in as an already-rendered string (the CLI renders whatever partial tree
// the parser returned, however deep it got) so this package does not need
// to import pkg/ast. The file is named
// "<source-base>.<uuid>.dump.json" so repeated failing compiles of the
// same file never clobber a previous dump.
func WriteSidecarDump(dir, sourcePath string, tokens []DumpTokens, partialAST string, diagnostics []Diagnostic) (string, error) {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	name := fmt.Sprintf("%s.%s.dump.json", base, uuid.NewString())
	path := filepath.Join(dir, name)

	doc := "{}"
	var err error
	for i, t := range tokens {
		prefix := fmt.Sprintf("tokens.%d.", i)
		doc, err = sjson.Set(doc, prefix+"type", t.Type)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, prefix+"literal", t.Literal)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, prefix+"line", t.Line)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, prefix+"column", t.Column)
		if err != nil {
			return "", err
		}
	}

	doc, err = sjson.Set(doc, "ast", partialAST)
	if err != nil {
		return "", err
	}

	for i, d := range diagnostics {
		prefix := fmt.Sprintf("diagnostics.%d.", i)
		doc, err = sjson.Set(doc, prefix+"severity", d.Severity.String())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, prefix+"kind", string(d.Kind))
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, prefix+"message", d.Message)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, prefix+"position", d.Pos.String())
		if err != nil {
			return "", err
		}
	}

	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("diag: writing sidecar dump: %w", err)
	}
	return path, nil
}

// TokensForDump adapts a slice of lexer tokens into the DumpTokens shape
// WriteSidecarDump expects, keeping internal/diag free of a dependency on
// pkg/token's Type stringer being the only source of truth for this.
func TokensForDump(toks []token.Token) []DumpTokens {
	out := make([]DumpTokens, len(toks))
	for i, t := range toks {
		out[i] = DumpTokens{
			Type:    t.Type.String(),
			Literal: t.Literal,
			Line:    t.Pos.Line,
			Column:  t.Pos.Column,
		}
	}
	return out
}
