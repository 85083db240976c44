package ast

import "strings"

// Qualifiers bundles the type qualifiers that can attach to any type
// expression; each pointer level of a declarator carries its own set.
type Qualifiers struct {
	Const    bool
	Volatile bool
	Restrict bool
	Atomic   bool
}

func (q Qualifiers) String() string {
	var parts []string
	if q.Const {
		parts = append(parts, "const")
	}
	if q.Volatile {
		parts = append(parts, "volatile")
	}
	if q.Restrict {
		parts = append(parts, "restrict")
	}
	if q.Atomic {
		parts = append(parts, "_Atomic")
	}
	return strings.Join(parts, " ")
}

// NamedType is a type reference by name: a builtin spelling ("int",
// "unsigned long"), a typedef name, or a bare struct/union/enum tag
// reference (`struct Foo` without a body).
type NamedType struct {
	base
	Name  string
	Quals Qualifiers
}

func (t *NamedType) typeNode() {}
func (t *NamedType) String() string {
	if q := t.Quals.String(); q != "" {
		return q + " " + t.Name
	}
	return t.Name
}

// PointerType is `Elem *`.
type PointerType struct {
	base
	Elem  Type
	Quals Qualifiers
}

func (t *PointerType) typeNode() {}
func (t *PointerType) String() string {
	s := t.Elem.String() + " *"
	if q := t.Quals.String(); q != "" {
		s += " " + q
	}
	return s
}

// ArrayType is `Elem [Len]`. Len is nil for an incomplete array type
// (`int[]`, or the first parameter of a function taking an array).
type ArrayType struct {
	base
	Elem Type
	Len  Expr
}

func (t *ArrayType) typeNode()      {}
func (t *ArrayType) String() string { return t.Elem.String() + "[]" }

// FunctionType is a function's parameter/return-type shape, used both for
// function declarators and for function-pointer types.
type FunctionType struct {
	base
	Params   []*Param
	Variadic bool
	Return   Type
}

func (t *FunctionType) typeNode() {}
func (t *FunctionType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.Type.String()
	}
	variadic := ""
	if t.Variadic {
		variadic = ", ..."
	}
	ret := "void"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return ret + "(" + strings.Join(parts, ", ") + variadic + ")"
}

// Field is one member of a struct or union type.
type Field struct {
	base
	Name string
	Type Type
	// Bits is the bitfield width, or nil if this is not a bitfield.
	Bits Expr
}

func (f *Field) node() {}

// StructType is `struct Tag { fields... }`, or a bare forward reference
// when Fields is nil (the tag has a body elsewhere or not at all yet).
type StructType struct {
	base
	Tag    string
	Fields []*Field
}

func (t *StructType) typeNode() {}
func (t *StructType) String() string {
	if t.Tag != "" {
		return "struct " + t.Tag
	}
	return "struct {anonymous}"
}

// UnionType mirrors StructType for `union`.
type UnionType struct {
	base
	Tag    string
	Fields []*Field
}

func (t *UnionType) typeNode() {}
func (t *UnionType) String() string {
	if t.Tag != "" {
		return "union " + t.Tag
	}
	return "union {anonymous}"
}

// Enumerator is one `NAME` or `NAME = value` member of an enum type.
type Enumerator struct {
	base
	Name  string
	Value Expr // nil when the value is implicit (previous + 1)
}

func (e *Enumerator) node() {}

// EnumType is `enum Tag { A, B = 2, C }`.
type EnumType struct {
	base
	Tag         string
	Enumerators []*Enumerator
}

func (t *EnumType) typeNode() {}
func (t *EnumType) String() string {
	if t.Tag != "" {
		return "enum " + t.Tag
	}
	return "enum {anonymous}"
}
