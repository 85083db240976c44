package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/internal/lexer"
	"github.com/nanoc-lang/nanoc/internal/parser"
	"github.com/nanoc-lang/nanoc/internal/syntax"
	"github.com/nanoc-lang/nanoc/pkg/ast"
)

var (
	parseEval    string
	parseDumpAST bool
	parseStd     string
	parseDumpDir string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse preprocessed C source and display the resulting AST",
	Long: `Parse a C translation unit and print its abstract syntax tree.

On a parse failure a sidecar debug dump (token list plus partial AST) is
written to the --dump-dir directory (the current directory by default).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline source instead of reading from a file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
	parseCmd.Flags().StringVar(&parseStd, "std", "c11", "C standard: c89, c90, c99, c11, c23, gnu99, gnu11")
	parseCmd.Flags().StringVar(&parseDumpDir, "dump-dir", ".", "directory for the sidecar debug dump on parse failure")
}

func runParse(cmd *cobra.Command, args []string) error {
	src, filename, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	std, ok := parseStandard(parseStd)
	if !ok {
		return fmt.Errorf("unknown --std value %q", parseStd)
	}

	desc := syntax.NewC99()
	toks, _ := lexer.Tokenize(filename, src, desc)
	diags := diag.NewCollector()
	tu, _ := parser.Parse(toks, std, diags)

	if diags.HasErrors() {
		for _, d := range diags.Diagnostics() {
			fmt.Fprintln(os.Stderr, d.String())
		}
		dumpPath, dumpErr := diag.WriteSidecarDump(parseDumpDir, filename, diag.TokensForDump(toks), dumpTranslationUnit(tu), diags.Diagnostics())
		if dumpErr == nil {
			fmt.Fprintf(os.Stderr, "debug dump written to %s\n", dumpPath)
		}
		return fmt.Errorf("parsing failed with %d error(s)", diags.ErrorCount())
	}

	if parseDumpAST {
		fmt.Println(dumpTranslationUnit(tu))
	} else {
		fmt.Printf("translation unit: %d top-level declaration(s)\n", len(tu.Decls))
	}
	return nil
}

func parseStandard(s string) (parser.Standard, bool) {
	switch s {
	case "c89":
		return parser.C89, true
	case "c90":
		return parser.C90, true
	case "c99":
		return parser.C99, true
	case "c11":
		return parser.C11, true
	case "c23":
		return parser.C23, true
	case "gnu99":
		return parser.GNU99, true
	case "gnu11":
		return parser.GNU11, true
	}
	return 0, false
}

func dumpTranslationUnit(tu *ast.TranslationUnit) string {
	var sb indentingBuilder
	if tu == nil {
		return "<nil translation unit>"
	}
	sb.writeln(fmt.Sprintf("TranslationUnit (%d decls)", len(tu.Decls)))
	sb.indent++
	for _, d := range tu.Decls {
		dumpDecl(&sb, d)
	}
	return sb.String()
}

type indentingBuilder struct {
	out    []string
	indent int
}

func (b *indentingBuilder) writeln(s string) {
	prefix := ""
	for i := 0; i < b.indent; i++ {
		prefix += "  "
	}
	b.out = append(b.out, prefix+s)
}

func (b *indentingBuilder) String() string {
	out := ""
	for _, line := range b.out {
		out += line + "\n"
	}
	return out
}

func dumpDecl(sb *indentingBuilder, d ast.Decl) {
	switch v := d.(type) {
	case *ast.FuncDecl:
		kind := "declaration"
		if v.IsDefinition() {
			kind = "definition"
		}
		sb.writeln(fmt.Sprintf("FuncDecl %s (%s, %d params)", v.Name, kind, len(v.Params)))
		if v.Body != nil {
			sb.indent++
			dumpStmt(sb, v.Body)
			sb.indent--
		}
	case *ast.VarDecl:
		sb.writeln(fmt.Sprintf("VarDecl %s: %s", v.Name, typeString(v.Type)))
	case *ast.TypedefDecl:
		sb.writeln(fmt.Sprintf("TypedefDecl %s = %s", v.Name, typeString(v.Type)))
	case *ast.TagDecl:
		sb.writeln(fmt.Sprintf("TagDecl %s", typeString(v.Tag)))
	case *ast.DeclGroup:
		sb.writeln(fmt.Sprintf("DeclGroup (%d)", len(v.Decls)))
		sb.indent++
		for _, inner := range v.Decls {
			dumpDecl(sb, inner)
		}
		sb.indent--
	default:
		sb.writeln(fmt.Sprintf("%T", d))
	}
}

func typeString(t ast.Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}

func dumpStmt(sb *indentingBuilder, s ast.Stmt) {
	switch v := s.(type) {
	case *ast.CompoundStmt:
		sb.writeln(fmt.Sprintf("CompoundStmt (%d stmts)", len(v.Stmts)))
		sb.indent++
		for _, inner := range v.Stmts {
			dumpStmt(sb, inner)
		}
		sb.indent--
	case *ast.DeclStmt:
		sb.writeln("DeclStmt")
		sb.indent++
		dumpDecl(sb, v.Decl)
		sb.indent--
	case *ast.ExprStmt:
		sb.writeln("ExprStmt")
	case *ast.IfStmt:
		sb.writeln("IfStmt")
	case *ast.WhileStmt:
		sb.writeln("WhileStmt")
	case *ast.DoWhileStmt:
		sb.writeln("DoWhileStmt")
	case *ast.ForStmt:
		sb.writeln("ForStmt")
	case *ast.ReturnStmt:
		sb.writeln("ReturnStmt")
	case *ast.BreakStmt:
		sb.writeln("BreakStmt")
	case *ast.ContinueStmt:
		sb.writeln("ContinueStmt")
	case *ast.SwitchStmt:
		sb.writeln("SwitchStmt")
	default:
		sb.writeln(fmt.Sprintf("%T", s))
	}
}
