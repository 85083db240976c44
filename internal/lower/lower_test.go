package lower

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/internal/ir"
	"github.com/nanoc-lang/nanoc/internal/lexer"
	"github.com/nanoc-lang/nanoc/internal/parser"
	"github.com/nanoc-lang/nanoc/internal/syntax"
	"github.com/nanoc-lang/nanoc/pkg/token"
)

func lowerSource(t *testing.T, src string) (*ir.Module, *diag.Collector) {
	t.Helper()
	lx := lexer.New("test.c", []byte(src), syntax.NewC99())
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	diags := diag.NewCollector()
	tu, _ := parser.Parse(toks, parser.C11, diags)
	l := New(diags)
	l.Generate(tu, "test")
	return l.Module(), diags
}

func findFunc(t *testing.T, m *ir.Module, name string) *ir.Function {
	t.Helper()
	fn := m.FindFunction(name)
	if fn == nil {
		t.Fatalf("function %q not found in module", name)
	}
	return fn
}

// A single return of a constant produces one function, one block, one
// Ret terminator.
func TestLowerReturnConstant(t *testing.T) {
	m, diags := lowerSource(t, `int main(void) { return 42; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	fn := findFunc(t, m, "main")
	if len(fn.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(fn.Blocks))
	}
	ret, ok := fn.Blocks[0].Terminator.(*ir.Ret)
	if !ok {
		t.Fatalf("expected *ir.Ret terminator, got %T", fn.Blocks[0].Terminator)
	}
	ci, ok := ret.Value.(ir.ConstInt)
	if !ok || ci.Value != 42 {
		t.Fatalf("expected return of constant 42, got %#v", ret.Value)
	}
	if problems := m.Verify(); len(problems) != 0 {
		t.Fatalf("module failed verification: %v", problems)
	}
}

// A call passes its arguments through as lowered constants.
func TestLowerCallArguments(t *testing.T) {
	m, diags := lowerSource(t, `
		int add(int a, int b) { return a + b; }
		int main(void) { return add(10, 20); }
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	if len(m.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(m.Functions))
	}
	main := findFunc(t, m, "main")
	var call *ir.Call
	for _, inst := range main.Entry().Instrs {
		if c, ok := inst.(*ir.Call); ok {
			call = c
		}
	}
	if call == nil {
		t.Fatalf("expected a Call instruction in main's entry block")
	}
	if call.Callee.Name != "add" {
		t.Fatalf("expected call to add, got %s", call.Callee.Name)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	if diff := deep.Equal(call.Args[0], ir.Value(ir.ConstInt{Typ: ir.I32, Value: 10})); diff != nil {
		t.Errorf("arg 0 mismatch: %v", diff)
	}
	if diff := deep.Equal(call.Args[1], ir.Value(ir.ConstInt{Typ: ir.I32, Value: 20})); diff != nil {
		t.Errorf("arg 1 mismatch: %v", diff)
	}
}

// A while loop produces cond/body/end-shaped blocks; break targets the
// loop's successor and continue targets the condition block.
func TestLowerWhileLoopShape(t *testing.T) {
	m, diags := lowerSource(t, `
		int main(void) {
			int i = 0;
			while (i < 5) {
				i = i + 1;
			}
			return i;
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")
	if len(main.Blocks) < 4 {
		t.Fatalf("expected at least 4 blocks (entry/cond/body/end), got %d", len(main.Blocks))
	}
	var sawCondBr bool
	for _, b := range main.Blocks {
		if _, ok := b.Terminator.(*ir.CondBr); ok {
			sawCondBr = true
		}
	}
	if !sawCondBr {
		t.Fatalf("expected at least one CondBr terminator for the loop condition")
	}
	if problems := m.Verify(); len(problems) != 0 {
		t.Fatalf("module failed verification: %v", problems)
	}
}

// A typedef registered before use resolves a subsequent declaration's
// type instead of being misparsed as two consecutive identifiers.
func TestLowerTypedefThenVarDecl(t *testing.T) {
	m, diags := lowerSource(t, `
		typedef int T;
		T x;
		int main(void){ return 0; }
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	if len(m.Globals) != 1 {
		t.Fatalf("expected 1 global, got %d", len(m.Globals))
	}
	if m.Globals[0].Name != "x" {
		t.Fatalf("expected global named x, got %s", m.Globals[0].Name)
	}
	if m.Globals[0].Typ.TypeString() != ir.I32.TypeString() {
		t.Fatalf("expected global x to resolve to i32 through the T typedef, got %s", m.Globals[0].Typ.TypeString())
	}
}

// Logical && short-circuits through an rhs block and joins with a phi
// producing a one-bit value.
func TestLowerLogicalAndShortCircuitsWithPhi(t *testing.T) {
	m, diags := lowerSource(t, `
		int main(void){
			int a = 1, b = 0;
			if (a && b) return 1;
			else return 2;
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")
	if len(main.Blocks) < 3 {
		t.Fatalf("expected at least 3 blocks (entry/rhs/end) for a && b, got %d", len(main.Blocks))
	}
	var sawPhi bool
	for _, b := range main.Blocks {
		for _, inst := range b.Instrs {
			if phi, ok := inst.(*ir.Phi); ok {
				sawPhi = true
				if phi.Typ.TypeString() != ir.I1.TypeString() {
					t.Errorf("expected && phi to produce i1, got %s", phi.Typ.TypeString())
				}
			}
		}
	}
	if !sawPhi {
		t.Fatalf("expected a Phi instruction joining the && short-circuit")
	}
}

// Break outside any loop is a semantic error, reported with the
// dedicated break-outside-loop diagnostic kind and an Unreachable
// terminator rather than aborting lowering of sibling constructs.
func TestLowerBreakOutsideLoopReportsErrorAndUnreachable(t *testing.T) {
	m, diags := lowerSource(t, `
		int main(void) {
			break;
			return 0;
		}
	`)
	if !diags.HasErrors() {
		t.Fatalf("expected a diagnostic for break outside of loop")
	}
	var found bool
	for _, d := range diags.Diagnostics() {
		if d.Kind == diag.KindBreakOutsideLoop {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.KindBreakOutsideLoop, got %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")
	if _, ok := main.Entry().Terminator.(*ir.Unreachable); !ok {
		t.Fatalf("expected an Unreachable terminator, got %T", main.Entry().Terminator)
	}
}

// A matched case with no break falls straight into the next case's body
// (a Br terminator into that arm's block) rather than re-testing the tag,
// giving real C fallthrough: `switch(1){case 1: a=1; case 2: a=2; break;}`
// must assign a=2, not stop at a=1.
func TestLowerSwitchFallthroughBranchesToNextCaseBody(t *testing.T) {
	m, diags := lowerSource(t, `
		int main(void) {
			int a = 0;
			switch (1) {
			case 1:
				a = 1;
			case 2:
				a = 2;
				break;
			}
			return a;
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")

	var case1Blk, case2Blk *ir.BasicBlock
	for _, b := range main.Blocks {
		for _, inst := range b.Instrs {
			store, ok := inst.(*ir.Store)
			if !ok {
				continue
			}
			ci, ok := store.Val.(ir.ConstInt)
			if !ok {
				continue
			}
			switch ci.Value {
			case 1:
				case1Blk = b
			case 2:
				case2Blk = b
			}
		}
	}
	if case1Blk == nil || case2Blk == nil {
		t.Fatalf("expected to find the a=1 and a=2 assignment blocks")
	}
	br, ok := case1Blk.Terminator.(*ir.Br)
	if !ok {
		t.Fatalf("expected case 1's block to end in an unconditional Br (fallthrough), got %T", case1Blk.Terminator)
	}
	if br.Target != case2Blk {
		t.Fatalf("expected case 1 to fall through into case 2's block, branched to %q instead", br.Target.Name)
	}
	if problems := m.Verify(); len(problems) != 0 {
		t.Fatalf("module failed verification: %v", problems)
	}
}

// Grouped case labels (`case 1: case 2: ...`) share one body instead of
// the second label's statements being dropped or only conditionally run.
func TestLowerSwitchGroupedCaseLabelsShareBody(t *testing.T) {
	m, diags := lowerSource(t, `
		int main(void) {
			int a = 0;
			switch (2) {
			case 1:
			case 2:
				a = 9;
				break;
			default:
				a = -1;
			}
			return a;
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")

	var condBrCount int
	var sawNine bool
	for _, b := range main.Blocks {
		if _, ok := b.Terminator.(*ir.CondBr); ok {
			condBrCount++
		}
		for _, inst := range b.Instrs {
			if store, ok := inst.(*ir.Store); ok {
				if ci, ok := store.Val.(ir.ConstInt); ok && ci.Value == 9 {
					sawNine = true
				}
			}
		}
	}
	// Two case values (1 and 2) means two tag comparisons in the chain,
	// both of which must target the same shared body block.
	if condBrCount != 2 {
		t.Fatalf("expected 2 CondBr (one per grouped case value), got %d", condBrCount)
	}
	if !sawNine {
		t.Fatalf("expected the grouped case body (a=9) to be lowered exactly once")
	}
	if problems := m.Verify(); len(problems) != 0 {
		t.Fatalf("module failed verification: %v", problems)
	}
}

// continue inside a switch belongs to the enclosing loop, not the switch:
// it must branch to the loop's increment block, not the switch's end block.
func TestLowerContinueInsideSwitchTargetsEnclosingLoop(t *testing.T) {
	m, diags := lowerSource(t, `
		int main(void) {
			int total = 0;
			for (int i = 0; i < 10; i++) {
				switch (i) {
				case 3:
					continue;
				default:
					total = total + i;
				}
			}
			return total;
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")

	var incBlk *ir.BasicBlock
	for _, b := range main.Blocks {
		if len(b.Name) >= 7 && b.Name[:7] == "for.inc" {
			incBlk = b
		}
	}
	if incBlk == nil {
		t.Fatalf("expected a for.inc block in %v", blockNames(main))
	}

	// The continue arm (a switch.case block) must branch straight to
	// for.inc, not to switch.end.
	var sawCaseBrToInc bool
	for _, b := range main.Blocks {
		if len(b.Name) < 11 || b.Name[:11] != "switch.case" {
			continue
		}
		if br, ok := b.Terminator.(*ir.Br); ok && br.Target == incBlk {
			sawCaseBrToInc = true
		}
	}
	if !sawCaseBrToInc {
		t.Fatalf("expected the continue case arm to branch to the loop's increment block")
	}
	if problems := m.Verify(); len(problems) != 0 {
		t.Fatalf("module failed verification: %v", problems)
	}
}

func blockNames(fn *ir.Function) []string {
	names := make([]string, len(fn.Blocks))
	for i, b := range fn.Blocks {
		names[i] = b.Name
	}
	return names
}

func TestModuleVerifyCatchesMissingTerminator(t *testing.T) {
	m := ir.NewModule("t")
	fn := m.AddFunction(&ir.Function{Name: "f", ReturnType: ir.I32})
	fn.Blocks = append(fn.Blocks, &ir.BasicBlock{Name: "entry"})
	problems := m.Verify()
	if len(problems) != 1 {
		t.Fatalf("expected exactly 1 problem, got %v", problems)
	}
}
