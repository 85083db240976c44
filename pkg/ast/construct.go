package ast

import "github.com/nanoc-lang/nanoc/pkg/token"

// This file collects the typed constructors for the common node shapes.
// Each returns a fully-initialized node; there is
// no separate add_child step because every node type above carries its
// children as ordinary Go struct fields rather than a generic child list,
// which makes "add a child" just "assign a field" at construction time.

// NewTranslationUnit builds the root node over an ordered declaration list.
func NewTranslationUnit(pos token.Position, decls []Decl) *TranslationUnit {
	return &TranslationUnit{base: base{pos}, Decls: decls}
}

// NewFuncDecl builds a function declaration or definition.
func NewFuncDecl(pos token.Position, name string, params []*Param, variadic bool, ret Type, body *CompoundStmt) *FuncDecl {
	return &FuncDecl{
		base:     base{pos},
		Name:     name,
		Params:   params,
		Variadic: variadic,
		Return:   ret,
		Body:     body,
	}
}

// NewParam builds a function parameter declarator.
func NewParam(pos token.Position, name string, typ Type) *Param {
	return &Param{base: base{pos}, Name: name, Type: typ}
}

// NewVarDecl builds a variable declaration with an optional initializer.
func NewVarDecl(pos token.Position, name string, typ Type, init Expr) *VarDecl {
	return &VarDecl{base: base{pos}, Name: name, Type: typ, Init: init}
}

// NewTypedefDecl builds a typedef declaration. The caller (the parser) is
// responsible for registering Name in its typedef set; this constructor
// only builds the node.
func NewTypedefDecl(pos token.Position, name string, typ Type) *TypedefDecl {
	return &TypedefDecl{base: base{pos}, Name: name, Type: typ}
}

// NewCompoundStmt builds a `{ ... }` block.
func NewCompoundStmt(pos token.Position, stmts []Stmt) *CompoundStmt {
	return &CompoundStmt{base: base{pos}, Stmts: stmts}
}

// NewIfStmt builds an if/if-else statement (els may be nil).
func NewIfStmt(pos token.Position, cond Expr, then, els Stmt) *IfStmt {
	return &IfStmt{base: base{pos}, Cond: cond, Then: then, Else: els}
}

// NewWhileStmt builds a while loop.
func NewWhileStmt(pos token.Position, cond Expr, body Stmt) *WhileStmt {
	return &WhileStmt{base: base{pos}, Cond: cond, Body: body}
}

// NewForStmt builds a for loop; init/cond/post may each be nil.
func NewForStmt(pos token.Position, init Stmt, cond, post Expr, body Stmt) *ForStmt {
	return &ForStmt{base: base{pos}, Init: init, Cond: cond, Post: post, Body: body}
}

// NewReturnStmt builds a return statement (value may be nil).
func NewReturnStmt(pos token.Position, value Expr) *ReturnStmt {
	return &ReturnStmt{base: base{pos}, Value: value}
}

// NewBinaryExpr builds a non-logical binary expression.
func NewBinaryExpr(pos token.Position, op token.Type, x, y Expr) *BinaryExpr {
	return &BinaryExpr{base: base{pos}, Op: op, X: x, Y: y}
}

// NewLogicalExpr builds a short-circuit && or || expression.
func NewLogicalExpr(pos token.Position, op token.Type, x, y Expr) *LogicalExpr {
	return &LogicalExpr{base: base{pos}, Op: op, X: x, Y: y}
}

// NewUnaryExpr builds a prefix unary expression.
func NewUnaryExpr(pos token.Position, op UnaryOp, x Expr) *UnaryExpr {
	return &UnaryExpr{base: base{pos}, Op: op, X: x}
}

// NewCallExpr builds a function call expression.
func NewCallExpr(pos token.Position, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{base: base{pos}, Callee: callee, Args: args}
}

// NewMemberExpr builds a `.` or `->` member-access expression.
func NewMemberExpr(pos token.Position, x Expr, name string, arrow bool) *MemberExpr {
	return &MemberExpr{base: base{pos}, X: x, Name: name, Arrow: arrow}
}

// NewIndexExpr builds an array-subscript expression.
func NewIndexExpr(pos token.Position, x, index Expr) *IndexExpr {
	return &IndexExpr{base: base{pos}, X: x, Index: index}
}

// NewIdent builds an identifier reference.
func NewIdent(pos token.Position, name string) *Ident {
	return &Ident{base: base{pos}, Name: name}
}

// NewIntLit builds an integer literal.
func NewIntLit(pos token.Position, value int64, isUnsigned, isLong bool) *IntLit {
	return &IntLit{base: base{pos}, Value: value, IsUnsigned: isUnsigned, IsLong: isLong}
}

// NewFloatLit builds a floating-point literal.
func NewFloatLit(pos token.Position, value float64) *FloatLit {
	return &FloatLit{base: base{pos}, Value: value}
}

// NewStringLit builds a string literal (escapes already decoded).
func NewStringLit(pos token.Position, value string) *StringLit {
	return &StringLit{base: base{pos}, Value: value}
}

// NewCharLit builds a character literal (escapes already decoded).
func NewCharLit(pos token.Position, value rune) *CharLit {
	return &CharLit{base: base{pos}, Value: value}
}

// NewNamedType builds a type reference by name.
func NewNamedType(pos token.Position, name string, quals Qualifiers) *NamedType {
	return &NamedType{base: base{pos}, Name: name, Quals: quals}
}

// NewPointerType builds `Elem *`.
func NewPointerType(pos token.Position, elem Type, quals Qualifiers) *PointerType {
	return &PointerType{base: base{pos}, Elem: elem, Quals: quals}
}

// NewArrayType builds `Elem[Len]` (len may be nil for an incomplete array).
func NewArrayType(pos token.Position, elem Type, length Expr) *ArrayType {
	return &ArrayType{base: base{pos}, Elem: elem, Len: length}
}

// NewFunctionType builds a function type/declarator wrapper.
func NewFunctionType(pos token.Position, params []*Param, variadic bool, ret Type) *FunctionType {
	return &FunctionType{base: base{pos}, Params: params, Variadic: variadic, Return: ret}
}

// NewCastExpr builds a cast expression, produced only once the parser's
// cast-disambiguation snapshot/restore has committed to this reading.
func NewCastExpr(pos token.Position, typ Type, x Expr) *CastExpr {
	return &CastExpr{base: base{pos}, Type: typ, X: x}
}

// NewDeclStmt wraps a declaration so it can appear among a block's statements.
func NewDeclStmt(pos token.Position, decl Decl) *DeclStmt {
	return &DeclStmt{base: base{pos}, Decl: decl}
}

// NewExprStmt builds a bare expression statement.
func NewExprStmt(pos token.Position, x Expr) *ExprStmt {
	return &ExprStmt{base: base{pos}, X: x}
}

// NewEmptyStmt builds a lone `;`.
func NewEmptyStmt(pos token.Position) *EmptyStmt {
	return &EmptyStmt{base: base{pos}}
}

// NewSwitchStmt builds a `switch (Tag) Body`.
func NewSwitchStmt(pos token.Position, tag Expr, body Stmt) *SwitchStmt {
	return &SwitchStmt{base: base{pos}, Tag: tag, Body: body}
}

// NewCaseStmt builds a `case Value: Stmt`.
func NewCaseStmt(pos token.Position, value Expr, stmt Stmt) *CaseStmt {
	return &CaseStmt{base: base{pos}, Value: value, Stmt: stmt}
}

// NewDefaultStmt builds a `default: Stmt`.
func NewDefaultStmt(pos token.Position, stmt Stmt) *DefaultStmt {
	return &DefaultStmt{base: base{pos}, Stmt: stmt}
}

// NewDoWhileStmt builds a `do Body while (Cond);`.
func NewDoWhileStmt(pos token.Position, body Stmt, cond Expr) *DoWhileStmt {
	return &DoWhileStmt{base: base{pos}, Body: body, Cond: cond}
}

// NewBreakStmt builds a `break;`.
func NewBreakStmt(pos token.Position) *BreakStmt {
	return &BreakStmt{base: base{pos}}
}

// NewContinueStmt builds a `continue;`.
func NewContinueStmt(pos token.Position) *ContinueStmt {
	return &ContinueStmt{base: base{pos}}
}

// NewGotoStmt builds a `goto Label;`.
func NewGotoStmt(pos token.Position, label string) *GotoStmt {
	return &GotoStmt{base: base{pos}, Label: label}
}

// NewLabeledStmt builds a `Label: Stmt`.
func NewLabeledStmt(pos token.Position, label string, stmt Stmt) *LabeledStmt {
	return &LabeledStmt{base: base{pos}, Label: label, Stmt: stmt}
}

// NewAsmStmt builds a GNU inline-assembly statement.
func NewAsmStmt(pos token.Position, code string, volatile bool) *AsmStmt {
	return &AsmStmt{base: base{pos}, Code: code, Volatile: volatile}
}

// NewAssignExpr builds `X op= Y` (plain `=` carries op == token.ASSIGN).
func NewAssignExpr(pos token.Position, op token.Type, x, y Expr) *AssignExpr {
	return &AssignExpr{base: base{pos}, Op: op, X: x, Y: y}
}

// NewIncDecExpr builds a prefix or postfix `++`/`--`.
func NewIncDecExpr(pos token.Position, op token.Type, x Expr, prefix bool) *IncDecExpr {
	return &IncDecExpr{base: base{pos}, Op: op, X: x, Prefix: prefix}
}

// NewCondExpr builds the ternary `Cond ? Then : Else`.
func NewCondExpr(pos token.Position, cond, then, els Expr) *CondExpr {
	return &CondExpr{base: base{pos}, Cond: cond, Then: then, Else: els}
}

// NewCommaExpr builds the comma operator over two or more operands.
func NewCommaExpr(pos token.Position, exprs []Expr) *CommaExpr {
	return &CommaExpr{base: base{pos}, Exprs: exprs}
}

// NewSizeofExpr builds `sizeof(Type)` (x == nil) or `sizeof X` (typ == nil).
func NewSizeofExpr(pos token.Position, typ Type, x Expr) *SizeofExpr {
	return &SizeofExpr{base: base{pos}, Type: typ, X: x}
}
