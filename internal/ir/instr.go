package ir

// Instruction is any non-terminator IR instruction. Value-producing
// instructions additionally satisfy Value so they can be used as operands
// of later instructions (this core has no separate SSA register naming
// pass; an instruction pointer is its own value handle).
type Instruction interface {
	instrNode()
}

// BinOpKind identifies an arithmetic or bitwise binary instruction.
type BinOpKind int

const (
	Add BinOpKind = iota
	Sub
	Mul
	SDiv
	UDiv
	SRem
	URem
	And
	Or
	Xor
	Shl
	AShr
	LShr
)

// CmpPred identifies a comparison instruction's predicate.
type CmpPred int

const (
	CmpEQ CmpPred = iota
	CmpNE
	CmpSLT
	CmpSLE
	CmpSGT
	CmpSGE
	CmpULT
	CmpULE
	CmpUGT
	CmpUGE
)

// CastKind identifies an operand-coercion instruction.
type CastKind int

const (
	ZExt CastKind = iota
	Trunc
	PtrToInt
	IntToPtr
	BitCast
)

// Alloca reserves a stack slot of ElemType; its value is a pointer to
// that slot. Every C variable is modeled by one.
type Alloca struct {
	Name     string
	ElemType Type
}

func (*Alloca) instrNode()        {}
func (a *Alloca) ValueType() Type { return PointerType{Elem: a.ElemType} }
func (*Alloca) valueNode()        {}

// Load reads the value stored at Addr.
type Load struct {
	Addr Value
	Typ  Type
}

func (*Load) instrNode()        {}
func (l *Load) ValueType() Type { return l.Typ }
func (*Load) valueNode()        {}

// Store writes Val to Addr. It produces no value.
type Store struct {
	Addr Value
	Val  Value
}

func (*Store) instrNode() {}

// BinOp is a two-operand arithmetic or bitwise instruction.
type BinOp struct {
	Op   BinOpKind
	X, Y Value
	Typ  Type
}

func (*BinOp) instrNode()        {}
func (b *BinOp) ValueType() Type { return b.Typ }
func (*BinOp) valueNode()        {}

// ICmp is an integer/pointer comparison, always producing i1.
type ICmp struct {
	Pred CmpPred
	X, Y Value
}

func (*ICmp) instrNode()      {}
func (*ICmp) ValueType() Type { return I1 }
func (*ICmp) valueNode()      {}

// Cast is an operand-coercion instruction (zext/trunc/ptrtoint/inttoptr/bitcast).
type Cast struct {
	Kind CastKind
	X    Value
	Typ  Type
}

func (*Cast) instrNode()        {}
func (c *Cast) ValueType() Type { return c.Typ }
func (*Cast) valueNode()        {}

// Call invokes Callee with Args. Typ is VoidType{} for a void call.
type Call struct {
	Callee *Function
	Args   []Value
	Typ    Type
}

func (*Call) instrNode()        {}
func (c *Call) ValueType() Type { return c.Typ }
func (*Call) valueNode()        {}

// GEP computes an address offset from Base by Indices, used to lower
// member access and array subscripting without materializing a load.
type GEP struct {
	Base    Value
	Indices []Value
	Typ     Type // pointer type of the computed address
}

func (*GEP) instrNode()        {}
func (g *GEP) ValueType() Type { return g.Typ }
func (*GEP) valueNode()        {}

// PhiIncoming pairs an incoming value with the predecessor block it comes
// from.
type PhiIncoming struct {
	Value Value
	Block *BasicBlock
}

// Phi selects a value depending on which predecessor transferred control,
// used at the control-flow joins after logical && / || and the ternary
// operator.
type Phi struct {
	Typ      Type
	Incoming []PhiIncoming
}

func (*Phi) instrNode()        {}
func (p *Phi) ValueType() Type { return p.Typ }
func (*Phi) valueNode()        {}
