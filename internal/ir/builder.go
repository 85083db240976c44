package ir

// Builder emits instructions into a function by maintaining a cursor
// positioned at the end of the "current" block: blocks are created empty
// and filled by positioning the cursor at their end. It is not safe for
// concurrent use; the whole pipeline is single-threaded.
type Builder struct {
	fn  *Function
	cur *BasicBlock
}

// NewBuilder creates a Builder that will append blocks to fn.
func NewBuilder(fn *Function) *Builder {
	return &Builder{fn: fn}
}

// NewBlock creates a new, empty basic block appended to the function and
// returns it without moving the cursor.
func (b *Builder) NewBlock(name string) *BasicBlock {
	block := &BasicBlock{Name: name}
	b.fn.Blocks = append(b.fn.Blocks, block)
	return block
}

// SetInsertPoint moves the cursor to the end of block. Subsequent Create*
// calls append there.
func (b *Builder) SetInsertPoint(block *BasicBlock) {
	b.cur = block
}

// Current returns the block the cursor currently points at.
func (b *Builder) Current() *BasicBlock {
	return b.cur
}

// IsOpen reports whether the current block is still unterminated, i.e.
// further instructions (or a terminator) may still be appended to it.
func (b *Builder) IsOpen() bool {
	return b.cur != nil && !b.cur.IsTerminated()
}

func (b *Builder) emit(instr Instruction) {
	if b.cur == nil || b.cur.IsTerminated() {
		// A closed or absent insertion point means a prior construct
		// already terminated this path (e.g. a return inside an if-branch);
		// the caller is responsible for checking IsOpen before lowering a
		// construct that falls through, so this is unreachable in
		// well-formed lowering and silently dropped rather than panicking,
		// mirroring the lowerer's errors-already-surfaced recovery posture.
		return
	}
	b.cur.Append(instr)
}

func (b *Builder) terminate(term Terminator) {
	if b.cur == nil || b.cur.IsTerminated() {
		return
	}
	b.cur.Terminator = term
}

// CreateAlloca emits a stack-slot allocation and returns it as an address
// value of type PointerType{elemType}.
func (b *Builder) CreateAlloca(name string, elemType Type) *Alloca {
	a := &Alloca{Name: name, ElemType: elemType}
	b.emit(a)
	return a
}

// CreateLoad emits a load of typ from addr.
func (b *Builder) CreateLoad(addr Value, typ Type) *Load {
	l := &Load{Addr: addr, Typ: typ}
	b.emit(l)
	return l
}

// CreateStore emits a store of val to addr.
func (b *Builder) CreateStore(addr, val Value) {
	b.emit(&Store{Addr: addr, Val: val})
}

// CreateBinOp emits a binary arithmetic/bitwise instruction of result
// type typ.
func (b *Builder) CreateBinOp(op BinOpKind, x, y Value, typ Type) *BinOp {
	inst := &BinOp{Op: op, X: x, Y: y, Typ: typ}
	b.emit(inst)
	return inst
}

// CreateICmp emits a comparison instruction, always producing i1.
func (b *Builder) CreateICmp(pred CmpPred, x, y Value) *ICmp {
	inst := &ICmp{Pred: pred, X: x, Y: y}
	b.emit(inst)
	return inst
}

// CreateCast emits an operand-coercion instruction.
func (b *Builder) CreateCast(kind CastKind, x Value, typ Type) *Cast {
	inst := &Cast{Kind: kind, X: x, Typ: typ}
	b.emit(inst)
	return inst
}

// CreateCall emits a call to callee.
func (b *Builder) CreateCall(callee *Function, args []Value) *Call {
	inst := &Call{Callee: callee, Args: args, Typ: callee.ReturnType}
	b.emit(inst)
	return inst
}

// CreateGEP emits an address-computation instruction.
func (b *Builder) CreateGEP(base Value, indices []Value, typ Type) *GEP {
	inst := &GEP{Base: base, Indices: indices, Typ: typ}
	b.emit(inst)
	return inst
}

// CreatePhi emits a phi node with the given incoming edges.
func (b *Builder) CreatePhi(typ Type, incoming []PhiIncoming) *Phi {
	inst := &Phi{Typ: typ, Incoming: incoming}
	b.emit(inst)
	return inst
}

// CreateBr closes the current block with an unconditional branch.
func (b *Builder) CreateBr(target *BasicBlock) {
	b.terminate(&Br{Target: target})
}

// CreateCondBr closes the current block with a conditional branch.
func (b *Builder) CreateCondBr(cond Value, then, els *BasicBlock) {
	b.terminate(&CondBr{Cond: cond, Then: then, Else: els})
}

// CreateRet closes the current block with a return (value may be nil).
func (b *Builder) CreateRet(value Value) {
	b.terminate(&Ret{Value: value})
}

// CreateUnreachable closes the current block with an unreachable
// terminator.
func (b *Builder) CreateUnreachable() {
	b.terminate(&Unreachable{})
}
