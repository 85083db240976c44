package lower

import (
	"strings"

	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/internal/ir"
	"github.com/nanoc-lang/nanoc/pkg/ast"
)

// resolveType lowers a C type expression to its IR shape, registering any
// struct/union/enum tag it encounters along the way. It never fails
// outright: on an unresolvable reference it reports a diagnostic and
// degrades to ir.I32 so the caller can keep lowering the rest of the
// function instead of aborting.
func (l *Lowerer) resolveType(t ast.Type) (ir.Type, bool) {
	switch v := t.(type) {
	case nil:
		return ir.Void, true
	case *ast.NamedType:
		if irt, ok := resolveBuiltinName(v.Name); ok {
			return irt, true
		}
		if underlying, ok := l.typedefs[v.Name]; ok {
			return l.resolveType(underlying)
		}
		l.errorf(diag.KindOther, v.Pos(), "unknown type name %q", v.Name)
		return ir.I32, false
	case *ast.PointerType:
		elem, ok := l.resolveType(v.Elem)
		if !ok {
			elem = ir.I32
		}
		return ir.PointerType{Elem: elem}, true
	case *ast.ArrayType:
		elem, ok := l.resolveType(v.Elem)
		if !ok {
			elem = ir.I32
		}
		var n int64
		if v.Len != nil {
			if c, isConst := l.evalConstInt(v.Len); isConst {
				n = c
			}
		}
		return ir.ArrayType{Elem: elem, Len: n}, true
	case *ast.FunctionType:
		params := make([]ir.Type, len(v.Params))
		for i, p := range v.Params {
			pt, ok := l.resolveType(p.Type)
			if !ok {
				pt = ir.I32
			}
			params[i] = pt
		}
		ret, ok := l.resolveType(v.Return)
		if !ok {
			ret = ir.Void
		}
		return ir.FuncType{Params: params, Variadic: v.Variadic, Return: ret}, true
	case *ast.StructType:
		key := v.Tag
		if key == "" {
			key = l.anonKey()
		}
		return l.resolveAggregate(key, v.Fields, false), true
	case *ast.UnionType:
		key := v.Tag
		if key == "" {
			key = l.anonKey()
		}
		return l.resolveAggregate(key, v.Fields, true), true
	case *ast.EnumType:
		l.registerEnum(v)
		return ir.I32, true
	default:
		l.errorf(diag.KindOther, t.Pos(), "lowering: unsupported type %T", t)
		return ir.I32, false
	}
}

func (l *Lowerer) anonKey() string {
	l.anonCounter++
	return "$anon" + itoa(l.anonCounter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// registerNamedAggregate binds an anonymous struct/union body to a
// typedef name directly, since such a body has no tag to key on
// otherwise (e.g. `typedef struct { int x, y; } Point;`).
func (l *Lowerer) registerNamedAggregate(name string, fields []*ast.Field, isUnion bool) {
	l.resolveAggregate(name, fields, isUnion)
}

// resolveAggregate builds (or reuses) the structLayout keyed by key. A
// placeholder is registered before field types are resolved so a
// self-referential member (`struct Node *next` inside `struct Node`)
// resolves against the in-progress layout instead of recursing forever.
func (l *Lowerer) resolveAggregate(key string, fields []*ast.Field, isUnion bool) ir.Type {
	layout, exists := l.structs[key]
	if !exists {
		layout = &structLayout{
			irType:     ir.StructType{Name: key},
			isUnion:    isUnion,
			fieldIndex: make(map[string]int),
			fieldType:  make(map[string]ir.Type),
			fieldCType: make(map[string]ast.Type),
		}
		l.structs[key] = layout
	}
	if fields == nil {
		// A bare forward reference (`struct Foo;` or `struct Foo *p`):
		// reuse whatever layout (possibly still incomplete) is on file.
		return layout.irType
	}

	fieldTypes := make([]ir.Type, 0, len(fields))
	var largest ir.Type = ir.I8
	var largestSize int64 = 1
	for i, f := range fields {
		ft, ok := l.resolveType(f.Type)
		if !ok {
			ft = ir.I32
		}
		layout.fieldIndex[f.Name] = i
		layout.fieldType[f.Name] = ft
		layout.fieldCType[f.Name] = f.Type
		if isUnion {
			if sz, ok := ir.SizeOf(ft); ok && sz > largestSize {
				largest, largestSize = ft, sz
			}
		} else {
			fieldTypes = append(fieldTypes, ft)
		}
	}
	if isUnion {
		// Every member overlays offset 0; GEP index 0 always lands on
		// the representative (largest) member's storage.
		for name := range layout.fieldIndex {
			layout.fieldIndex[name] = 0
		}
		fieldTypes = []ir.Type{largest}
	}
	layout.irType = ir.StructType{Name: key, Fields: fieldTypes}
	return layout.irType
}

// layoutFor resolves the structLayout backing a (possibly typedef'd,
// possibly pointer-wrapped) aggregate C type, used by member-expression
// lowering. Returns nil if cType does not denote a known aggregate.
func (l *Lowerer) layoutFor(cType ast.Type) *structLayout {
	switch v := cType.(type) {
	case *ast.StructType:
		key := v.Tag
		if key == "" {
			return nil
		}
		return l.structs[key]
	case *ast.UnionType:
		key := v.Tag
		if key == "" {
			return nil
		}
		return l.structs[key]
	case *ast.NamedType:
		if underlying, ok := l.typedefs[v.Name]; ok {
			return l.layoutFor(underlying)
		}
		return l.structs[v.Name]
	case *ast.PointerType:
		return l.layoutFor(v.Elem)
	default:
		return nil
	}
}

// resolveBuiltinName maps a declaration-specifier spelling (as joined by
// internal/parser's joinTypeName, keyword order preserved as written) to
// its IR type, by counting specifier words rather than matching an exact
// phrase: "unsigned long" and "long unsigned" are the same type in C and
// both must resolve identically.
func resolveBuiltinName(name string) (ir.Type, bool) {
	words := strings.Fields(name)
	if len(words) == 0 {
		return nil, false
	}
	switch words[0] {
	case "const", "volatile", "restrict", "_Atomic":
		return resolveBuiltinName(strings.Join(words[1:], " "))
	}

	var unsigned, signed bool
	var shortCount, longCount int
	var base string
	for _, w := range words {
		switch w {
		case "unsigned":
			unsigned = true
		case "signed":
			signed = true
		case "short":
			shortCount++
		case "long":
			longCount++
		case "void", "char", "int", "float", "double", "_Bool":
			base = w
		default:
			return nil, false
		}
	}
	_ = signed

	switch base {
	case "void":
		return ir.Void, true
	case "_Bool":
		return ir.I8, true
	case "char":
		return ir.I8, true
	case "float":
		// This core has no float type; float storage is approximated
		// with an integer of matching width.
		return ir.I32, true
	case "double":
		return ir.I64, true
	case "":
		base = "int"
		fallthrough
	case "int":
		switch {
		case longCount >= 1:
			return ir.I64, true
		case shortCount >= 1:
			return ir.I16, true
		default:
			if unsigned {
				return ir.I32, true
			}
			return ir.I32, true
		}
	}
	return nil, false
}

// isUnsignedCType reports whether t's builtin spelling carries the
// `unsigned` (or `_Bool`) specifier, used to pick signed vs. unsigned
// division/comparison/shift instructions.
func (l *Lowerer) isUnsignedCType(t ast.Type) bool {
	switch v := t.(type) {
	case *ast.NamedType:
		if strings.Contains(v.Name, "unsigned") || v.Name == "_Bool" {
			return true
		}
		if underlying, ok := l.typedefs[v.Name]; ok {
			return l.isUnsignedCType(underlying)
		}
		return false
	case *ast.PointerType:
		return true // pointer arithmetic/comparison always treated as unsigned
	default:
		return false
	}
}

// registerEnum assigns sequential values to an enum's enumerators
// (previous + 1, or the explicit constant expression when present) and
// records them in the flat enum-constant table, mirroring the parser's
// own flat (non-scoped) typedef oracle.
func (l *Lowerer) registerEnum(t *ast.EnumType) {
	if t.Enumerators == nil {
		return
	}
	var next int64
	for _, e := range t.Enumerators {
		val := next
		if e.Value != nil {
			if c, ok := l.evalConstInt(e.Value); ok {
				val = c
			}
		}
		if e.Name != "" {
			l.enums[e.Name] = val
		}
		next = val + 1
	}
}

// evalConstInt evaluates a constant-expression subset sufficient for
// array lengths and enumerator initializers: integer/char literals and
// +, -, *, /, %, &, |, ^, <<, >>, unary +/-/!/~ over other constants.
func (l *Lowerer) evalConstInt(e ast.Expr) (int64, bool) {
	switch v := e.(type) {
	case *ast.IntLit:
		return v.Value, true
	case *ast.CharLit:
		return int64(v.Value), true
	case *ast.UnaryExpr:
		x, ok := l.evalConstInt(v.X)
		if !ok {
			return 0, false
		}
		switch v.Op {
		case ast.UnaryPlus:
			return x, true
		case ast.UnaryMinus:
			return -x, true
		case ast.UnaryNot:
			if x == 0 {
				return 1, true
			}
			return 0, true
		case ast.UnaryBitNot:
			return ^x, true
		}
		return 0, false
	case *ast.BinaryExpr:
		x, ok := l.evalConstInt(v.X)
		if !ok {
			return 0, false
		}
		y, ok := l.evalConstInt(v.Y)
		if !ok {
			return 0, false
		}
		return evalConstBinOp(v.Op.String(), x, y)
	case *ast.CastExpr:
		return l.evalConstInt(v.X)
	case *ast.SizeofExpr:
		if v.Type != nil {
			if sz, ok := l.sizeOfCType(v.Type); ok {
				return sz, true
			}
		}
		return 0, false
	}
	return 0, false
}

func evalConstBinOp(op string, x, y int64) (int64, bool) {
	switch op {
	case "+":
		return x + y, true
	case "-":
		return x - y, true
	case "*":
		return x * y, true
	case "/":
		if y == 0 {
			return 0, false
		}
		return x / y, true
	case "%":
		if y == 0 {
			return 0, false
		}
		return x % y, true
	case "&":
		return x & y, true
	case "|":
		return x | y, true
	case "^":
		return x ^ y, true
	case "<<":
		return x << uint(y), true
	case ">>":
		return x >> uint(y), true
	}
	return 0, false
}

// sizeOfCType resolves t's IR shape and folds its static size, the
// building block for constant-folding `sizeof` at lowering time.
func (l *Lowerer) sizeOfCType(t ast.Type) (int64, bool) {
	irt, ok := l.resolveType(t)
	if !ok {
		return 0, false
	}
	return ir.SizeOf(irt)
}

// typeOfExpr makes a best-effort, non-evaluating guess at an
// expression's static C type. It sizes `sizeof expr` (the operand of
// which C never evaluates, so lowering must not emit the instructions
// that computing its value would require), and it recovers an operand's
// C type for dereference, member, subscript and signedness decisions. It
// does not attempt full semantic typing; an expression it cannot classify
// yields ok=false (for sizeof, the caller then uses a pointer-sized
// default).
func (l *Lowerer) typeOfExpr(e ast.Expr) (ast.Type, bool) {
	switch v := e.(type) {
	case *ast.Ident:
		if s, ok := l.locals[v.Name]; ok {
			return s.cType, true
		}
		if g, ok := l.globals[v.Name]; ok {
			return g.cType, true
		}
		return nil, false
	case *ast.MemberExpr:
		baseType, ok := l.typeOfExpr(v.X)
		if !ok {
			return nil, false
		}
		if v.Arrow {
			if pt, ok := baseType.(*ast.PointerType); ok {
				baseType = pt.Elem
			}
		}
		layout := l.layoutFor(baseType)
		if layout == nil {
			return nil, false
		}
		ct, ok := layout.fieldCType[v.Name]
		return ct, ok
	case *ast.IndexExpr:
		baseType, ok := l.typeOfExpr(v.X)
		if !ok {
			return nil, false
		}
		switch bt := baseType.(type) {
		case *ast.ArrayType:
			return bt.Elem, true
		case *ast.PointerType:
			return bt.Elem, true
		}
		return nil, false
	case *ast.UnaryExpr:
		if v.Op == ast.UnaryDeref {
			baseType, ok := l.typeOfExpr(v.X)
			if !ok {
				return nil, false
			}
			if pt, ok := baseType.(*ast.PointerType); ok {
				return pt.Elem, true
			}
		}
		return nil, false
	case *ast.CastExpr:
		return v.Type, true
	}
	return nil, false
}
