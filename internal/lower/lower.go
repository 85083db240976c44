// Package lower translates a pkg/ast.TranslationUnit into a verified
// internal/ir.Module. Every local variable is modeled by a
// stack slot; expression lowering is post-order; control flow is realized
// by explicit basic blocks linked with branches and, at && / || / ?:
// joins, a phi. The lowerer never aborts a whole translation unit on a
// per-function semantic error: the offending subtree yields no IR, the
// error is counted, and lowering continues with the next construct.
package lower

import (
	"fmt"

	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/internal/ir"
	"github.com/nanoc-lang/nanoc/pkg/ast"
	"github.com/nanoc-lang/nanoc/pkg/token"
)

// Runaway-input recursion ceilings for statement and declaration lowering.
const (
	maxStatementDepth   = 500
	maxDeclarationDepth = 100
)

// localSlot is a function-local variable's stack slot plus the C type it
// was declared with, needed to resolve member/array/pointer semantics
// later in the same function.
type localSlot struct {
	addr  ir.Value
	typ   ir.Type
	cType ast.Type
}

// globalSlot mirrors localSlot for file-scope variables.
type globalSlot struct {
	global *ir.GlobalVar
	typ    ir.Type
	cType  ast.Type
}

// loopTarget is one entry of the lowerer's loop-context stack: where a
// break and a continue inside the current loop should branch to.
type loopTarget struct {
	continueTarget *ir.BasicBlock
	breakTarget    *ir.BasicBlock
}

// structLayout records how one struct or union tag (or anonymous
// typedef'd aggregate) was lowered: its IR shape plus a name-addressable
// index into it. Unions collapse every member onto GEP index 0 backed by
// the largest member's storage (see resolveAggregate).
type structLayout struct {
	irType     ir.StructType
	isUnion    bool
	fieldIndex map[string]int
	fieldType  map[string]ir.Type
	fieldCType map[string]ast.Type
}

// Lowerer drives one translation unit's worth of lowering. Its top-level
// tables (typedefs, structs, enum constants, globals, functions) persist
// across functions; locals, the builder, and the loop stack are reset at
// the start of each function.
type Lowerer struct {
	diags  *diag.Collector
	module *ir.Module

	typedefs map[string]ast.Type
	structs  map[string]*structLayout
	enums    map[string]int64

	globals map[string]*globalSlot
	funcs   map[string]*ast.FuncDecl // the declared/defined signature, for call checking

	anonCounter int

	fn        *ir.Function
	b         *ir.Builder
	locals    map[string]*localSlot
	loopStack []loopTarget

	stmtDepth int
	declDepth int
	blockSeq  int
}

// New returns an empty Lowerer reporting to diags.
func New(diags *diag.Collector) *Lowerer {
	if diags == nil {
		diags = diag.NewCollector()
	}
	return &Lowerer{
		diags:    diags,
		typedefs: make(map[string]ast.Type),
		structs:  make(map[string]*structLayout),
		enums:    make(map[string]int64),
		globals:  make(map[string]*globalSlot),
		funcs:    make(map[string]*ast.FuncDecl),
	}
}

// Lower is the package-level convenience entry point: build a Lowerer,
// run it over tu, and return the resulting module regardless of whether
// every function lowered cleanly (callers that care check diags).
func Lower(tu *ast.TranslationUnit, moduleName string, diags *diag.Collector) *ir.Module {
	l := New(diags)
	l.Generate(tu, moduleName)
	return l.module
}

// Module returns the module built by the most recent Generate call.
func (l *Lowerer) Module() *ir.Module { return l.module }

// Generate lowers every top-level declaration into l's module in source
// order (so a use must be preceded by its declaration, exactly as C
// itself requires) and reports whether no new errors were introduced.
func (l *Lowerer) Generate(tu *ast.TranslationUnit, moduleName string) bool {
	l.module = ir.NewModule(moduleName)
	before := l.diags.ErrorCount()
	for _, d := range tu.Decls {
		l.lowerTopDecl(d)
	}
	return l.diags.ErrorCount() == before
}

func (l *Lowerer) errorf(kind diag.Kind, pos token.Position, format string, args ...any) {
	l.diags.Errorf(kind, pos, format, args...)
}

func (l *Lowerer) lowerTopDecl(d ast.Decl) {
	switch v := d.(type) {
	case *ast.DeclGroup:
		for _, inner := range v.Decls {
			l.lowerTopDecl(inner)
		}
	case *ast.TypedefDecl:
		l.typedefs[v.Name] = v.Type
		// Registering the layout now (rather than lazily at first use)
		// lets an anonymous `typedef struct { ... } Point;` be addressed
		// by the typedef name, since the struct itself carries no tag.
		if st, ok := v.Type.(*ast.StructType); ok && st.Tag == "" {
			l.registerNamedAggregate(v.Name, st.Fields, false)
		}
		if ut, ok := v.Type.(*ast.UnionType); ok && ut.Tag == "" {
			l.registerNamedAggregate(v.Name, ut.Fields, true)
		}
	case *ast.TagDecl:
		l.resolveType(v.Tag)
	case *ast.VarDecl:
		l.lowerGlobalVar(v)
	case *ast.FuncDecl:
		l.lowerFuncDecl(v)
	default:
		l.errorf(diag.KindOther, d.Pos(), "lowering: unsupported top-level declaration %T", d)
	}
}

func (l *Lowerer) lowerGlobalVar(v *ast.VarDecl) {
	typ, ok := l.resolveType(v.Type)
	if !ok {
		typ = ir.I32
	}
	g := &ir.GlobalVar{Name: v.Name, Typ: typ}
	if v.Init != nil {
		if n, isConst := l.evalConstInt(v.Init); isConst {
			g.Init = ir.ConstInt{Typ: typ, Value: n}
		}
	}
	l.module.AddGlobal(g)
	l.globals[v.Name] = &globalSlot{global: g, typ: typ, cType: v.Type}
}

// fresh returns a basic-block name unique within the function currently
// being lowered, so nested control constructs of the same kind (two
// sibling `if`s, say) don't collide on "then"/"merge"/etc.
func (l *Lowerer) fresh(label string) string {
	l.blockSeq++
	return fmt.Sprintf("%s.%d", label, l.blockSeq)
}
