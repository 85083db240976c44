package ir

import "fmt"

// Value is anything that can be used as an instruction operand: a
// constant, a function parameter, a global, or the result of a prior
// value-producing instruction.
type Value interface {
	ValueType() Type
	valueNode()
}

// ConstInt is an integer constant operand.
type ConstInt struct {
	Typ   Type
	Value int64
}

func (c ConstInt) ValueType() Type { return c.Typ }
func (ConstInt) valueNode()        {}
func (c ConstInt) String() string  { return fmt.Sprintf("%d", c.Value) }

// ConstNull is a null-pointer constant of the given pointer type.
type ConstNull struct{ Typ PointerType }

func (c ConstNull) ValueType() Type { return c.Typ }
func (ConstNull) valueNode()        {}

// ConstString is a string-literal constant, lowered as a pointer to an
// anonymous global byte array.
type ConstString struct {
	Global *GlobalVar
}

func (c ConstString) ValueType() Type { return PointerType{Elem: IntType{Bits: 8}} }
func (ConstString) valueNode()        {}

// Param is a function parameter used as a value (its incoming argument,
// before the lowerer stores it into that parameter's stack slot).
type Param struct {
	Name  string
	Typ   Type
	Index int
}

func (p *Param) ValueType() Type { return p.Typ }
func (*Param) valueNode()        {}

// GlobalVar is a module-level variable or string constant.
type GlobalVar struct {
	Name string
	Typ  Type // the pointee type; GlobalVar's address has type PointerType{Typ}
	Init Value
	// IsConst marks globals the lowerer emits for string-literal storage.
	IsConst bool
	// Bytes holds the NUL-terminated byte content of a string-literal
	// global (Typ is an ArrayType{I8, len(Bytes)} in that case); unset for
	// every other kind of global.
	Bytes []byte
}

func (g *GlobalVar) ValueType() Type { return PointerType{Elem: g.Typ} }
func (*GlobalVar) valueNode()        {}

// ConstFuncAddr is a Value wrapping a function, used where a function's
// address is needed (a bare function-name expression used as a value).
type ConstFuncAddr struct{ Fn *Function }

func (f ConstFuncAddr) ValueType() Type { return PointerType{Elem: f.Fn.Signature()} }
func (ConstFuncAddr) valueNode()        {}
