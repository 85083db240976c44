package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanoc-lang/nanoc/internal/backend"
	"github.com/nanoc-lang/nanoc/internal/backend/llvmir"
	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/internal/lexer"
	"github.com/nanoc-lang/nanoc/internal/lower"
	"github.com/nanoc-lang/nanoc/internal/parser"
	"github.com/nanoc-lang/nanoc/internal/syntax"
	"github.com/nanoc-lang/nanoc/pkg/ast"
	"github.com/nanoc-lang/nanoc/pkg/token"
)

var (
	buildOutput   string
	buildOptLevel string
	buildEmitLLVM bool
	buildAsmOnly  bool
	buildObjOnly  bool
	buildTarget   string
	buildBackend  string
	buildStd      string
	buildShared   bool
	buildPIC      bool
	buildDumpDir  string
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Compile a C translation unit to an object, assembly, IR, or executable",
	Long: `build runs the full pipeline (tokenize -> parse -> lower -> backend
emission) over one preprocessed C source file.

By default it links an executable at the output path (a.out unless -o is
given). --emit-llvm, -S, and -c select one of the other emission forms
instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output path (default: a.out, or <input>.<ext> for non-executable emission)")
	buildCmd.Flags().StringVarP(&buildOptLevel, "opt", "O", "0", "optimization level: 0, 1, 2, 3, s, z (s and z are aliased to 2)")
	buildCmd.Flags().BoolVar(&buildEmitLLVM, "emit-llvm", false, "emit textual LLVM IR instead of linking")
	buildCmd.Flags().BoolVarP(&buildAsmOnly, "assembly", "S", false, "emit target assembly instead of linking")
	buildCmd.Flags().BoolVarP(&buildObjOnly, "compile-only", "c", false, "emit an object file instead of linking")
	buildCmd.Flags().StringVar(&buildTarget, "target", "", "LLVM target triple (default: backend's host triple)")
	buildCmd.Flags().StringVar(&buildBackend, "backend", "llvmir", "code generation backend")
	buildCmd.Flags().StringVar(&buildStd, "std", "c11", "C standard: c89, c90, c99, c11, c23, gnu99, gnu11")
	buildCmd.Flags().BoolVar(&buildShared, "shared", false, "link a shared library instead of an executable")
	buildCmd.Flags().BoolVar(&buildPIC, "fPIC", false, "pass position-independent-code flag to the linker")
	buildCmd.Flags().StringVar(&buildDumpDir, "dump-dir", ".", "directory for the sidecar debug dump on parse failure")
}

// registry returns every backend this build supports. A fresh Registry is
// constructed per invocation rather than kept in a package variable.
func registry() *backend.Registry {
	r := backend.NewRegistry()
	r.Register("llvmir", llvmir.New)
	return r
}

func runBuild(cmd *cobra.Command, args []string) error {
	filename := args[0]
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	std, ok := parseStandard(buildStd)
	if !ok {
		return fmt.Errorf("unknown --std value %q", buildStd)
	}
	opt, ok := optLevelFor(buildOptLevel)
	if !ok {
		return fmt.Errorf("unknown -O value %q", buildOptLevel)
	}

	desc := syntax.NewC99()
	toks, lx := lexer.Tokenize(filename, src, desc)

	diags := diag.NewCollector()
	for _, lexErr := range lx.Errors {
		diags.Errorf(diag.KindLexical, lexErr.Pos, "%s", lexErr.Msg)
	}
	if diags.HasErrors() {
		reportDiagnostics(diags)
		return fmt.Errorf("lexing failed with %d error(s)", diags.ErrorCount())
	}

	tu, _ := parser.Parse(toks, std, diags)
	if diags.HasErrors() {
		reportAndDump(diags, toks, tu, filename)
		return fmt.Errorf("parsing failed with %d error(s)", diags.ErrorCount())
	}

	l := lower.New(diags)
	l.Generate(tu, moduleNameFor(filename))
	module := l.Module()
	if diags.HasErrors() {
		reportDiagnostics(diags)
		return fmt.Errorf("lowering failed with %d error(s)", diags.ErrorCount())
	}
	if problems := module.Verify(); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, "internal error:", p)
		}
		return fmt.Errorf("lowered module failed verification")
	}

	be, ok := registry().New(buildBackend)
	if !ok {
		return fmt.Errorf("unknown backend %q", buildBackend)
	}
	if !be.Generate(module, buildTarget, opt) {
		return fmt.Errorf("backend %q failed to generate code", buildBackend)
	}

	out := buildOutput
	switch {
	case buildEmitLLVM:
		if out == "" {
			out = replaceExt(filename, ".ll")
		}
		if err := be.EmitIR(out); err != nil {
			return fmt.Errorf("emitting LLVM IR: %w", err)
		}
	case buildAsmOnly:
		if out == "" {
			out = replaceExt(filename, ".s")
		}
		if err := be.EmitAssembly(out); err != nil {
			return fmt.Errorf("emitting assembly: %w", err)
		}
	case buildObjOnly:
		if out == "" {
			out = replaceExt(filename, ".o")
		}
		if err := be.EmitObject(out); err != nil {
			return fmt.Errorf("emitting object file: %w", err)
		}
	default:
		if out == "" {
			out = "a.out"
		}
		objPath := out + ".o"
		if err := be.EmitObject(objPath); err != nil {
			return fmt.Errorf("emitting object file: %w", err)
		}
		defer os.Remove(objPath)
		if err := be.LinkExecutable([]string{objPath}, out, buildShared, buildPIC); err != nil {
			return fmt.Errorf("linking: %w", err)
		}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "%s -> %s\n", filename, out)
	}
	return nil
}

func optLevelFor(s string) (backend.OptLevel, bool) {
	switch s {
	case "0":
		return backend.OptNone, true
	case "1":
		return backend.OptLess, true
	case "2":
		return backend.OptDefault, true
	case "3":
		return backend.OptAggressive, true
	case "s", "z":
		// "s" and "z" are size-optimization spellings, aliased to 2.
		return backend.OptDefault, true
	}
	return 0, false
}

func reportDiagnostics(diags *diag.Collector) {
	for _, d := range diags.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func reportAndDump(diags *diag.Collector, toks []token.Token, tu *ast.TranslationUnit, filename string) {
	reportDiagnostics(diags)
	dumpPath, err := diag.WriteSidecarDump(buildDumpDir, filename, diag.TokensForDump(toks), dumpTranslationUnit(tu), diags.Diagnostics())
	if err == nil {
		fmt.Fprintf(os.Stderr, "debug dump written to %s\n", dumpPath)
	}
}

func moduleNameFor(filename string) string {
	return baseNoExt(filename)
}

func baseNoExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func replaceExt(path, newExt string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return path + newExt
	}
	return strings.TrimSuffix(path, ext) + newExt
}
