package ir

import "testing"

func buildSimpleFunction() *Function {
	fn := &Function{Name: "main", ReturnType: I32}
	b := NewBuilder(fn)
	entry := b.NewBlock("entry")
	b.SetInsertPoint(entry)
	b.CreateRet(ConstInt{Typ: I32, Value: 42})
	return fn
}

func TestEveryBlockHasExactlyOneTerminator(t *testing.T) {
	fn := buildSimpleFunction()
	for _, blk := range fn.Blocks {
		if blk.Terminator == nil {
			t.Fatalf("block %s has no terminator", blk.Name)
		}
	}
}

func TestBuilderStopsEmittingAfterTerminator(t *testing.T) {
	fn := &Function{Name: "f", ReturnType: Void}
	b := NewBuilder(fn)
	entry := b.NewBlock("entry")
	b.SetInsertPoint(entry)
	b.CreateRet(nil)
	// further instructions after a terminator must be silently dropped,
	// not appended, preserving "no instruction follows a terminator".
	b.CreateAlloca("x", I32)
	if len(entry.Instrs) != 0 {
		t.Fatalf("expected no instructions after terminator, got %d", len(entry.Instrs))
	}
}

func TestModuleVerifyCatchesUnterminatedBlock(t *testing.T) {
	fn := &Function{Name: "f", ReturnType: Void}
	b := NewBuilder(fn)
	entry := b.NewBlock("entry")
	b.SetInsertPoint(entry)
	b.CreateAlloca("x", I32) // never terminated

	m := NewModule("test")
	m.AddFunction(fn)
	problems := m.Verify()
	if len(problems) == 0 {
		t.Fatal("expected Verify to report the unterminated block")
	}
}

func TestSizeOf(t *testing.T) {
	cases := []struct {
		typ  Type
		want int64
	}{
		{I8, 1}, {I32, 4}, {I64, 8},
		{PointerType{Elem: I32}, 8},
		{ArrayType{Elem: I32, Len: 10}, 40},
		{StructType{Fields: []Type{I32, I64}}, 12},
	}
	for _, c := range cases {
		got, ok := SizeOf(c.typ)
		if !ok {
			t.Errorf("SizeOf(%v) not ok", c.typ)
			continue
		}
		if got != c.want {
			t.Errorf("SizeOf(%v) = %d, want %d", c.typ, got, c.want)
		}
	}
}

func TestPhiCollectsIncomingEdges(t *testing.T) {
	fn := &Function{Name: "f", ReturnType: I32}
	b := NewBuilder(fn)
	entry := b.NewBlock("entry")
	lhsTrue := b.NewBlock("lhs_true")
	merge := b.NewBlock("merge")

	b.SetInsertPoint(entry)
	b.CreateCondBr(ConstInt{Typ: I1, Value: 1}, lhsTrue, merge)

	b.SetInsertPoint(lhsTrue)
	b.CreateBr(merge)

	b.SetInsertPoint(merge)
	phi := b.CreatePhi(I1, []PhiIncoming{
		{Value: ConstInt{Typ: I1, Value: 0}, Block: entry},
		{Value: ConstInt{Typ: I1, Value: 1}, Block: lhsTrue},
	})
	b.CreateRet(phi)

	if len(merge.Instrs) != 1 {
		t.Fatalf("expected 1 instruction in merge block, got %d", len(merge.Instrs))
	}
	if len(phi.Incoming) != 2 {
		t.Fatalf("expected 2 incoming edges, got %d", len(phi.Incoming))
	}
}
