package ast

// StorageClass is the storage-class specifier on a declaration, if any.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageExtern
	StorageRegister
	StorageAuto
	StorageTypedef
)

// Param is one parameter in a function declarator. Name is empty for an
// abstract parameter declarator (a type with no identifier leaf, legal in
// function-type positions that are not definitions).
type Param struct {
	base
	Name string
	Type Type
}

func (p *Param) node() {}

// FuncDecl is a function declaration or definition. Body is nil for a
// declaration-only prototype.
type FuncDecl struct {
	base
	Name     string
	Params   []*Param
	Variadic bool
	Return   Type
	Body     *CompoundStmt
	Storage  StorageClass
	Inline   bool
}

func (d *FuncDecl) declNode() {}

// IsDefinition reports whether this FuncDecl carries a body.
func (d *FuncDecl) IsDefinition() bool { return d.Body != nil }

// VarDecl is a variable declaration, at file scope or block scope, with an
// optional initializer expression.
type VarDecl struct {
	base
	Name    string
	Type    Type
	Init    Expr
	Storage StorageClass
}

func (d *VarDecl) declNode() {}

// TypedefDecl registers Name as an alias for Type. The parser is
// responsible for inserting Name into its typedef set as soon as this
// declaration is recognized — the pipeline's only closed feedback loop.
type TypedefDecl struct {
	base
	Name string
	Type Type
}

func (d *TypedefDecl) declNode() {}

// TagDecl declares (or forward-declares) a struct/union/enum tag with no
// accompanying variable, e.g. a standalone `struct Point { ... };`.
type TagDecl struct {
	base
	Tag Type // *StructType, *UnionType, or *EnumType
}

func (d *TagDecl) declNode() {}

// DeclGroup bundles multiple declarators sharing one set of declaration
// specifiers (`int a, *b, c[3];`); each declarator becomes its own
// name+type+initializer declaration node.
type DeclGroup struct {
	base
	Decls []Decl
}

func (d *DeclGroup) declNode() {}
