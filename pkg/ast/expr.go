package ast

import "github.com/nanoc-lang/nanoc/pkg/token"

// Ident is a bare identifier used as an expression (variable or function
// reference).
type Ident struct {
	base
	Name string
}

func (e *Ident) exprNode() {}

// IntLit is an integer literal, decimal/hex/octal/binary as scanned by
// the lexer; the original spelling radix is not retained, only the value
// and the suffix flags.
type IntLit struct {
	base
	Value      int64
	IsUnsigned bool
	IsLong     bool
}

func (e *IntLit) exprNode() {}

// FloatLit is a floating-point literal.
type FloatLit struct {
	base
	Value float64
}

func (e *FloatLit) exprNode() {}

// StringLit is a string literal with escapes already decoded.
type StringLit struct {
	base
	Value string
}

func (e *StringLit) exprNode() {}

// CharLit is a character literal with escapes already decoded.
type CharLit struct {
	base
	Value rune
}

func (e *CharLit) exprNode() {}

// BinaryExpr is a non-logical binary operator application (arithmetic,
// bitwise, relational, equality). Logical && and || get their own node
// kind (LogicalExpr) because the lowerer realizes them with control flow
// rather than a single instruction.
type BinaryExpr struct {
	base
	Op   token.Type
	X, Y Expr
}

func (e *BinaryExpr) exprNode() {}

// LogicalExpr is `X && Y` or `X || Y`, kept distinct from BinaryExpr so
// the lowerer can realize short-circuit control flow.
type LogicalExpr struct {
	base
	Op   token.Type // token.AND_AND or token.OR_OR
	X, Y Expr
}

func (e *LogicalExpr) exprNode() {}

// UnaryOp identifies a unary-expression operator kind distinct from the
// raw operator token, since the same token (`*`, `&`) means different
// things as unary prefix operators than as binary operators.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot    // !
	UnaryBitNot // ~
	UnaryAddr   // &x
	UnaryDeref  // *x
)

// UnaryExpr is a prefix unary operator application.
type UnaryExpr struct {
	base
	Op UnaryOp
	X  Expr
}

func (e *UnaryExpr) exprNode() {}

// IncDecExpr is `++x`, `--x`, `x++`, or `x--`.
type IncDecExpr struct {
	base
	Op     token.Type // token.INC or token.DEC
	X      Expr
	Prefix bool
}

func (e *IncDecExpr) exprNode() {}

// AssignExpr is `X op= Y` for op in {"", +, -, *, /, %, &, |, ^, <<, >>}
// (plain `=` carries Op == token.ASSIGN).
type AssignExpr struct {
	base
	Op   token.Type
	X, Y Expr
}

func (e *AssignExpr) exprNode() {}

// CondExpr is the ternary conditional `Cond ? Then : Else`.
type CondExpr struct {
	base
	Cond, Then, Else Expr
}

func (e *CondExpr) exprNode() {}

// CommaExpr is the comma operator `X, Y, Z`, evaluated left to right,
// yielding the value of the last operand.
type CommaExpr struct {
	base
	Exprs []Expr
}

func (e *CommaExpr) exprNode() {}

// CallExpr is `Callee(Args...)`.
type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) exprNode() {}

// MemberExpr is `X.Name` (Arrow == false) or `X->Name` (Arrow == true).
type MemberExpr struct {
	base
	X     Expr
	Name  string
	Arrow bool
}

func (e *MemberExpr) exprNode() {}

// IndexExpr is `X[Index]`.
type IndexExpr struct {
	base
	X, Index Expr
}

func (e *IndexExpr) exprNode() {}

// CastExpr is `(Type) X`, produced only after the parser's cast
// disambiguation commits to the cast interpretation.
type CastExpr struct {
	base
	Type Type
	X    Expr
}

func (e *CastExpr) exprNode() {}

// SizeofExpr is `sizeof(Type)` (Type != nil, X == nil) or `sizeof X`
// (X != nil, Type == nil).
type SizeofExpr struct {
	base
	Type Type
	X    Expr
}

func (e *SizeofExpr) exprNode() {}
