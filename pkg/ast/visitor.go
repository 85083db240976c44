package ast

// Visitor is implemented by callers that want to walk an AST without
// hand-writing a type switch at every call site. Walk calls Visit(node);
// if the returned Visitor is non-nil, Walk recurses into node's children
// with that visitor, then (mirroring go/ast.Walk) calls Visit(nil) to
// signal the end of node's children.
type Visitor interface {
	Visit(node Node) Visitor
}

// Walk traverses an AST in depth-first order, source order for sibling
// lists. It covers every node kind this package defines.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	v = v.Visit(node)
	if v == nil {
		return
	}
	defer v.Visit(nil)

	switch n := node.(type) {
	case *TranslationUnit:
		for _, d := range n.Decls {
			Walk(v, d)
		}
	case *FuncDecl:
		Walk(v, n.Return)
		for _, p := range n.Params {
			Walk(v, p)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *Param:
		Walk(v, n.Type)
	case *VarDecl:
		Walk(v, n.Type)
		Walk(v, n.Init)
	case *TypedefDecl:
		Walk(v, n.Type)
	case *TagDecl:
		Walk(v, n.Tag)
	case *DeclGroup:
		for _, d := range n.Decls {
			Walk(v, d)
		}
	case *PointerType:
		Walk(v, n.Elem)
	case *ArrayType:
		Walk(v, n.Elem)
		Walk(v, n.Len)
	case *FunctionType:
		for _, p := range n.Params {
			Walk(v, p)
		}
		Walk(v, n.Return)
	case *Field:
		Walk(v, n.Type)
		Walk(v, n.Bits)
	case *StructType:
		for _, f := range n.Fields {
			Walk(v, f)
		}
	case *UnionType:
		for _, f := range n.Fields {
			Walk(v, f)
		}
	case *Enumerator:
		Walk(v, n.Value)
	case *EnumType:
		for _, e := range n.Enumerators {
			Walk(v, e)
		}
	case *CompoundStmt:
		for _, s := range n.Stmts {
			Walk(v, s)
		}
	case *DeclStmt:
		Walk(v, n.Decl)
	case *ExprStmt:
		Walk(v, n.X)
	case *IfStmt:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		Walk(v, n.Else)
	case *SwitchStmt:
		Walk(v, n.Tag)
		Walk(v, n.Body)
	case *CaseStmt:
		Walk(v, n.Value)
		Walk(v, n.Stmt)
	case *DefaultStmt:
		Walk(v, n.Stmt)
	case *WhileStmt:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *DoWhileStmt:
		Walk(v, n.Body)
		Walk(v, n.Cond)
	case *ForStmt:
		Walk(v, n.Init)
		Walk(v, n.Cond)
		Walk(v, n.Post)
		Walk(v, n.Body)
	case *ReturnStmt:
		Walk(v, n.Value)
	case *LabeledStmt:
		Walk(v, n.Stmt)
	case *BinaryExpr:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *LogicalExpr:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *UnaryExpr:
		Walk(v, n.X)
	case *IncDecExpr:
		Walk(v, n.X)
	case *AssignExpr:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *CondExpr:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		Walk(v, n.Else)
	case *CommaExpr:
		for _, e := range n.Exprs {
			Walk(v, e)
		}
	case *CallExpr:
		Walk(v, n.Callee)
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *MemberExpr:
		Walk(v, n.X)
	case *IndexExpr:
		Walk(v, n.X)
		Walk(v, n.Index)
	case *CastExpr:
		Walk(v, n.Type)
		Walk(v, n.X)
	case *SizeofExpr:
		if n.Type != nil {
			Walk(v, n.Type)
		}
		Walk(v, n.X)
	// Leaf kinds: NamedType, Ident, IntLit, FloatLit, StringLit, CharLit,
	// EmptyStmt, BreakStmt, ContinueStmt, GotoStmt, AsmStmt have no
	// children to visit.
	case *NamedType, *Ident, *IntLit, *FloatLit, *StringLit, *CharLit,
		*EmptyStmt, *BreakStmt, *ContinueStmt, *GotoStmt, *AsmStmt:
	}
}
