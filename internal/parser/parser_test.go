package parser

import (
	"testing"

	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/internal/lexer"
	"github.com/nanoc-lang/nanoc/internal/syntax"
	"github.com/nanoc-lang/nanoc/pkg/ast"
	"github.com/nanoc-lang/nanoc/pkg/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	lx := lexer.New("test.c", []byte(src), syntax.NewC99())
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func parse(t *testing.T, src string) (*ast.TranslationUnit, int) {
	t.Helper()
	toks := tokenize(t, src)
	diags := diag.NewCollector()
	return Parse(toks, C11, diags)
}

func TestParseSimpleFunctionDefinition(t *testing.T) {
	tu, errs := parse(t, `int add(int a, int b) { return a + b; }`)
	if errs != 0 {
		t.Fatalf("unexpected errors: %d", errs)
	}
	if len(tu.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(tu.Decls))
	}
	fn, ok := tu.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", tu.Decls[0])
	}
	if fn.Name != "add" || !fn.IsDefinition() {
		t.Fatalf("unexpected function: %+v", fn)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected return statement, got %T", fn.Body.Stmts[0])
	}
	if _, ok := ret.Value.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected binary expr return value, got %T", ret.Value)
	}
}

func TestParseVariableDeclarationGroup(t *testing.T) {
	tu, errs := parse(t, `int a, *b, c[3];`)
	if errs != 0 {
		t.Fatalf("unexpected errors: %d", errs)
	}
	group, ok := tu.Decls[0].(*ast.DeclGroup)
	if !ok {
		t.Fatalf("expected *ast.DeclGroup, got %T", tu.Decls[0])
	}
	if len(group.Decls) != 3 {
		t.Fatalf("expected 3 declarators, got %d", len(group.Decls))
	}
	b := group.Decls[1].(*ast.VarDecl)
	if _, ok := b.Type.(*ast.PointerType); !ok {
		t.Fatalf("expected b to be a pointer type, got %T", b.Type)
	}
	c := group.Decls[2].(*ast.VarDecl)
	if _, ok := c.Type.(*ast.ArrayType); !ok {
		t.Fatalf("expected c to be an array type, got %T", c.Type)
	}
}

// TestTypedefOracleMakesLaterDeclaratorsParse is property #5: once a
// typedef is seen, every subsequent use of the name as a type-specifier
// parses as a declaration rather than a stray expression statement.
func TestTypedefOracleMakesLaterDeclaratorsParse(t *testing.T) {
	tu, errs := parse(t, `
		typedef struct { int x; int y; } Point;
		Point origin;
		int use(Point p) { return p.x; }
	`)
	if errs != 0 {
		t.Fatalf("unexpected errors: %d", errs)
	}
	if len(tu.Decls) != 3 {
		t.Fatalf("expected 3 decls, got %d", len(tu.Decls))
	}
	if _, ok := tu.Decls[0].(*ast.TypedefDecl); !ok {
		t.Fatalf("expected TypedefDecl first, got %T", tu.Decls[0])
	}
	origin, ok := tu.Decls[1].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl for origin, got %T", tu.Decls[1])
	}
	named, ok := origin.Type.(*ast.NamedType)
	if !ok || named.Name != "Point" {
		t.Fatalf("expected origin's type to be NamedType Point, got %#v", origin.Type)
	}
}

// TestCastVsParenthesizedExpressionDisambiguation is property #6: a
// parenthesized identifier that is not a typedef name stays a
// parenthesized expression ((x)-1 is a subtraction), and a parenthesized
// typedef name commits to a cast ((myint)+1 casts +1). The typedef set is
// flat, so the cast reading holds even though a parameter reuses the name.
func TestCastVsParenthesizedExpressionDisambiguation(t *testing.T) {
	tu, errs := parse(t, `
		typedef int myint;
		int f(int x, int myint) {
			int a = (myint) + 1;
			int b = (x) - 1;
			return a + b;
		}
	`)
	if errs != 0 {
		t.Fatalf("unexpected errors: %d", errs)
	}
	fn := tu.Decls[1].(*ast.FuncDecl)
	declA := fn.Body.Stmts[0].(*ast.DeclStmt).Decl.(*ast.VarDecl)
	if _, ok := declA.Init.(*ast.CastExpr); !ok {
		t.Fatalf("expected (myint)+1 to parse as a cast, got %T", declA.Init)
	}
	declB := fn.Body.Stmts[1].(*ast.DeclStmt).Decl.(*ast.VarDecl)
	if _, ok := declB.Init.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected (x)-1 to parse as a subtraction, got %T", declB.Init)
	}
}

// TestParseIsDeterministic is property #4: parsing the same token stream
// twice produces structurally identical results (same decl count, same
// kinds in the same order).
func TestParseIsDeterministic(t *testing.T) {
	src := `
		typedef unsigned long size_t;
		struct Vec { double x, y, z; };
		int dot(struct Vec *a, struct Vec *b);
		int dot(struct Vec *a, struct Vec *b) {
			int total = 0;
			for (int i = 0; i < 3; i++) {
				total += 1;
			}
			return total;
		}
	`
	tu1, errs1 := parse(t, src)
	tu2, errs2 := parse(t, src)
	if errs1 != errs2 {
		t.Fatalf("error counts differ: %d vs %d", errs1, errs2)
	}
	if len(tu1.Decls) != len(tu2.Decls) {
		t.Fatalf("decl counts differ: %d vs %d", len(tu1.Decls), len(tu2.Decls))
	}
	for i := range tu1.Decls {
		if typeName(tu1.Decls[i]) != typeName(tu2.Decls[i]) {
			t.Fatalf("decl %d kind differs: %T vs %T", i, tu1.Decls[i], tu2.Decls[i])
		}
	}
}

func typeName(d ast.Decl) string {
	switch d.(type) {
	case *ast.FuncDecl:
		return "FuncDecl"
	case *ast.VarDecl:
		return "VarDecl"
	case *ast.TypedefDecl:
		return "TypedefDecl"
	case *ast.TagDecl:
		return "TagDecl"
	case *ast.DeclGroup:
		return "DeclGroup"
	default:
		return "?"
	}
}

func TestParseControlFlowConstructs(t *testing.T) {
	tu, errs := parse(t, `
		int classify(int n) {
			if (n < 0) {
				return -1;
			} else if (n == 0) {
				return 0;
			}
			while (n > 10) {
				n = n / 2;
			}
			do {
				n--;
			} while (n > 0);
			switch (n) {
			case 1:
				return 1;
			default:
				break;
			}
			return n;
		}
	`)
	if errs != 0 {
		t.Fatalf("unexpected errors: %d", errs)
	}
	fn := tu.Decls[0].(*ast.FuncDecl)
	if _, ok := fn.Body.Stmts[0].(*ast.IfStmt); !ok {
		t.Fatalf("expected if statement, got %T", fn.Body.Stmts[0])
	}
	if _, ok := fn.Body.Stmts[1].(*ast.WhileStmt); !ok {
		t.Fatalf("expected while statement, got %T", fn.Body.Stmts[1])
	}
	if _, ok := fn.Body.Stmts[2].(*ast.DoWhileStmt); !ok {
		t.Fatalf("expected do-while statement, got %T", fn.Body.Stmts[2])
	}
	if _, ok := fn.Body.Stmts[3].(*ast.SwitchStmt); !ok {
		t.Fatalf("expected switch statement, got %T", fn.Body.Stmts[3])
	}
}

// break outside any loop parses without a diagnostic: judging it is left
// to lowering's loop stack.
func TestBreakOutsideLoopIsLeftToLowering(t *testing.T) {
	toks := tokenize(t, `int f() { break; }`)
	diags := diag.NewCollector()
	_, errs := Parse(toks, C11, diags)
	if errs != 0 {
		t.Fatalf("expected no parse errors, got %d", errs)
	}
	found := false
	for _, d := range diags.Diagnostics() {
		if d.Kind == diag.KindBreakOutsideLoop {
			found = true
		}
	}
	if found {
		t.Fatalf("expected no KindBreakOutsideLoop diagnostic from the parser, got %+v", diags.Diagnostics())
	}
}

// `_Generic` and `_Static_assert` require >= C11; under an
// earlier standard they must be rejected rather than silently accepted.
func TestGenericRequiresC11(t *testing.T) {
	toks := tokenize(t, `int f(void) { return _Generic(1, int: 1, default: 0); }`)

	diags := diag.NewCollector()
	_, errs := Parse(toks, C99, diags)
	if errs == 0 {
		t.Fatalf("expected _Generic under -std=c99 to be rejected")
	}
	found := false
	for _, d := range diags.Diagnostics() {
		if d.Kind == diag.KindUnsupportedStandard {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a KindUnsupportedStandard diagnostic, got %+v", diags.Diagnostics())
	}

	diags = diag.NewCollector()
	_, errs = Parse(toks, C11, diags)
	if errs != 0 {
		t.Fatalf("expected _Generic under -std=c11 to parse cleanly, got %d error(s): %+v", errs, diags.Diagnostics())
	}
}

func TestStaticAssertRequiresC11(t *testing.T) {
	toks := tokenize(t, `_Static_assert(1, "message");`)

	diags := diag.NewCollector()
	_, errs := Parse(toks, C99, diags)
	if errs == 0 {
		t.Fatalf("expected _Static_assert under -std=c99 to be rejected")
	}
	found := false
	for _, d := range diags.Diagnostics() {
		if d.Kind == diag.KindUnsupportedStandard {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a KindUnsupportedStandard diagnostic, got %+v", diags.Diagnostics())
	}

	diags = diag.NewCollector()
	_, errs = Parse(toks, C11, diags)
	if errs != 0 {
		t.Fatalf("expected _Static_assert under -std=c11 to parse cleanly, got %d error(s): %+v", errs, diags.Diagnostics())
	}
}

// TestParserRecoversAndTerminates exercises the stall detector and
// panic-mode recovery against malformed input: parsing must still
// terminate and produce a usable (if partial) tree.
func TestParserRecoversAndTerminates(t *testing.T) {
	toks := tokenize(t, `int a = ; int b = 2; +++ int c = 3;`)
	diags := diag.NewCollector()
	tu, errs := Parse(toks, C11, diags)
	if errs == 0 {
		t.Fatalf("expected at least one error on malformed input")
	}
	if tu == nil {
		t.Fatalf("expected a non-nil translation unit even on error")
	}
}

func TestFunctionPointerDeclaratorComposesTypesCorrectly(t *testing.T) {
	tu, errs := parse(t, `int (*callback)(int, int);`)
	if errs != 0 {
		t.Fatalf("unexpected errors: %d", errs)
	}
	vd := tu.Decls[0].(*ast.VarDecl)
	ptr, ok := vd.Type.(*ast.PointerType)
	if !ok {
		t.Fatalf("expected pointer type, got %T", vd.Type)
	}
	fnType, ok := ptr.Elem.(*ast.FunctionType)
	if !ok {
		t.Fatalf("expected pointer to function type, got %T", ptr.Elem)
	}
	if len(fnType.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fnType.Params))
	}
}

// `int m[2][3]` is array[2] of array[3] of int: the first suffix parsed is
// the outermost type, not the innermost.
func TestMultidimensionalArraySuffixOrder(t *testing.T) {
	tu, errs := parse(t, `int m[2][3];`)
	if errs != 0 {
		t.Fatalf("unexpected errors: %d", errs)
	}
	vd := tu.Decls[0].(*ast.VarDecl)
	outer, ok := vd.Type.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected array type, got %T", vd.Type)
	}
	if lit, ok := outer.Len.(*ast.IntLit); !ok || lit.Value != 2 {
		t.Fatalf("expected outer array length 2, got %#v", outer.Len)
	}
	inner, ok := outer.Elem.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected array of array, got %T", outer.Elem)
	}
	if lit, ok := inner.Len.(*ast.IntLit); !ok || lit.Value != 3 {
		t.Fatalf("expected inner array length 3, got %#v", inner.Len)
	}
}

func TestPointerToArrayVsArrayOfPointerDisambiguation(t *testing.T) {
	tu, errs := parse(t, `int (*a)[3]; int *b[3];`)
	if errs != 0 {
		t.Fatalf("unexpected errors: %d", errs)
	}
	a := tu.Decls[0].(*ast.VarDecl)
	aPtr, ok := a.Type.(*ast.PointerType)
	if !ok {
		t.Fatalf("expected a to be pointer type, got %T", a.Type)
	}
	if _, ok := aPtr.Elem.(*ast.ArrayType); !ok {
		t.Fatalf("expected a to be pointer to array, got %T", aPtr.Elem)
	}

	b := tu.Decls[1].(*ast.VarDecl)
	bArr, ok := b.Type.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected b to be array type, got %T", b.Type)
	}
	if _, ok := bArr.Elem.(*ast.PointerType); !ok {
		t.Fatalf("expected b to be array of pointer, got %T", bArr.Elem)
	}
}
