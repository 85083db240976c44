// Package ast defines the AST node types produced by internal/parser and
// consumed by internal/lower. Node kinds are expressed as one Go type per
// syntactic category rather than a single tagged-variant struct with a
// shared payload union, so every node's shape is statically checked.
package ast

import "github.com/nanoc-lang/nanoc/pkg/token"

// Node is implemented by every AST node. Go's garbage collector owns
// lifetime, so there is no destroyed-flag or explicit Destroy: a subtree
// that is dropped (never linked into a parent, or replaced during error
// recovery) is simply unreachable and collected normally.
type Node interface {
	Pos() token.Position
	node()
}

// Decl is a top-level or block-scope declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a function body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Type is a type expression: a named type, or a pointer/array/function/
// struct/union/enum wrapper around one.
type Type interface {
	Node
	typeNode()
	String() string
}

// base carries the source position every node has; embedded rather than
// repeated on every struct.
type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }
func (base) node()                 {}

// TranslationUnit is the root node: an ordered list of top-level
// declarations (functions, global variables, typedefs, tag declarations).
type TranslationUnit struct {
	base
	Decls []Decl
}
