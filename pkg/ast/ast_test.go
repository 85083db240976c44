package ast

import (
	"testing"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

func pos(line int) token.Position {
	return token.Position{Filename: "t.c", Line: line, Column: 1}
}

func TestConstructorsPreservePosition(t *testing.T) {
	id := NewIdent(pos(3), "x")
	if id.Pos().Line != 3 {
		t.Fatalf("Pos().Line = %d, want 3", id.Pos().Line)
	}
}

func TestFuncDeclIsDefinition(t *testing.T) {
	ret := NewNamedType(pos(1), "int", Qualifiers{})
	body := NewCompoundStmt(pos(1), nil)
	def := NewFuncDecl(pos(1), "main", nil, false, ret, body)
	if !def.IsDefinition() {
		t.Errorf("expected a body-carrying FuncDecl to be a definition")
	}

	proto := NewFuncDecl(pos(1), "main", nil, false, ret, nil)
	if proto.IsDefinition() {
		t.Errorf("expected a bodyless FuncDecl not to be a definition")
	}
}

func TestTypeStringRendering(t *testing.T) {
	intType := NewNamedType(pos(1), "int", Qualifiers{Const: true})
	if got := intType.String(); got != "const int" {
		t.Errorf("NamedType.String() = %q", got)
	}

	ptr := NewPointerType(pos(1), intType, Qualifiers{})
	if got := ptr.String(); got != "const int *" {
		t.Errorf("PointerType.String() = %q", got)
	}

	fn := NewFunctionType(pos(1), []*Param{NewParam(pos(1), "a", intType)}, true, NewNamedType(pos(1), "void", Qualifiers{}))
	if got := fn.String(); got != "void(const int, ...)" {
		t.Errorf("FunctionType.String() = %q", got)
	}
}

// countingVisitor counts every node Walk visits, used to check the walker
// reaches every field of a representative tree.
type countingVisitor struct{ n int }

func (c *countingVisitor) Visit(node Node) Visitor {
	if node == nil {
		return nil
	}
	c.n++
	return c
}

func TestWalkVisitsWholeTree(t *testing.T) {
	cond := NewBinaryExpr(pos(1), token.LT, NewIdent(pos(1), "i"), NewIntLit(pos(1), 5, false, false))
	body := NewCompoundStmt(pos(1), []Stmt{
		&ExprStmt{X: NewCallExpr(pos(1), NewIdent(pos(1), "f"), []Expr{NewIntLit(pos(1), 1, false, false)})},
	})
	loop := NewWhileStmt(pos(1), cond, body)
	fn := NewFuncDecl(pos(1), "main", nil, false, NewNamedType(pos(1), "int", Qualifiers{}),
		NewCompoundStmt(pos(1), []Stmt{loop, NewReturnStmt(pos(1), NewIntLit(pos(1), 0, false, false))}))
	tu := NewTranslationUnit(pos(1), []Decl{fn})

	v := &countingVisitor{}
	Walk(v, tu)
	if v.n == 0 {
		t.Fatal("Walk visited no nodes")
	}
	// translation unit, func decl, return type, body, while, cond (binary + 2 leaves),
	// while-body compound, expr stmt, call, callee, arg, return stmt, return value
	if v.n < 12 {
		t.Errorf("Walk visited only %d nodes, expected a deeper traversal", v.n)
	}
}
