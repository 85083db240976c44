package lower

import (
	"testing"

	"github.com/nanoc-lang/nanoc/internal/ir"
)

// sizeof must constant-fold to the operand type's real size, not a
// hardcoded constant.
func TestSizeofConstantFolds(t *testing.T) {
	m, diags := lowerSource(t, `
		struct Pair { int a; int b; };
		int main(void) {
			struct Pair p;
			return sizeof(p) + sizeof(int) + sizeof(char);
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")
	var sizes []int64
	for _, b := range main.Blocks {
		for _, inst := range b.Instrs {
			if bo, ok := inst.(*ir.BinOp); ok {
				if ci, ok := bo.Y.(ir.ConstInt); ok {
					sizes = append(sizes, ci.Value)
				}
				if ci, ok := bo.X.(ir.ConstInt); ok {
					sizes = append(sizes, ci.Value)
				}
			}
		}
	}
	var sawEight, sawFour, sawOne bool
	for _, s := range sizes {
		switch s {
		case 8:
			sawEight = true
		case 4:
			sawFour = true
		case 1:
			sawOne = true
		}
	}
	if !sawEight {
		t.Errorf("expected sizeof(struct Pair) to fold to 8, saw sizes %v", sizes)
	}
	if !sawFour {
		t.Errorf("expected sizeof(int) to fold to 4, saw sizes %v", sizes)
	}
	if !sawOne {
		t.Errorf("expected sizeof(char) to fold to 1, saw sizes %v", sizes)
	}
}

// Compound assignment through a struct-member lvalue must lower to a GEP
// address plus a read-modify-write, not a diagnostic.
func TestCompoundAssignThroughMemberLValue(t *testing.T) {
	m, diags := lowerSource(t, `
		struct Counter { int n; };
		int main(void) {
			struct Counter c;
			c.n = 1;
			c.n += 4;
			return c.n;
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")
	var sawGEP, sawAdd bool
	for _, b := range main.Blocks {
		for _, inst := range b.Instrs {
			if _, ok := inst.(*ir.GEP); ok {
				sawGEP = true
			}
			if bo, ok := inst.(*ir.BinOp); ok && bo.Op == ir.Add {
				sawAdd = true
			}
		}
	}
	if !sawGEP {
		t.Fatalf("expected a GEP computing the member address")
	}
	if !sawAdd {
		t.Fatalf("expected an Add instruction for the += compound assignment")
	}
}

// Compound assignment through a dereferenced pointer lvalue is likewise
// supported (*p += ...).
func TestCompoundAssignThroughDerefLValue(t *testing.T) {
	_, diags := lowerSource(t, `
		int main(void) {
			int x = 10;
			int *p = &x;
			*p += 5;
			return x;
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
}

// Pointer arithmetic lowers through GEP rather than a raw integer
// coercion; adding an int to a pointer must not emit an IntToPtr cast
// on the integer operand.
func TestPointerArithmeticUsesGEP(t *testing.T) {
	m, diags := lowerSource(t, `
		int main(void) {
			int a[4];
			int *p = a;
			p = p + 2;
			return *p;
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")
	var sawGEP bool
	for _, b := range main.Blocks {
		for _, inst := range b.Instrs {
			if _, ok := inst.(*ir.GEP); ok {
				sawGEP = true
			}
		}
	}
	if !sawGEP {
		t.Fatalf("expected pointer + int to lower through a GEP")
	}
}

// The ternary operator joins its branches with a phi, structurally
// identical to if/else.
func TestTernaryProducesPhi(t *testing.T) {
	m, diags := lowerSource(t, `
		int main(void) {
			int a = 1;
			return a ? 10 : 20;
		}
	`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	main := findFunc(t, m, "main")
	var sawPhi bool
	for _, b := range main.Blocks {
		for _, inst := range b.Instrs {
			if _, ok := inst.(*ir.Phi); ok {
				sawPhi = true
			}
		}
	}
	if !sawPhi {
		t.Fatalf("expected the ternary to produce a Phi at its merge block")
	}
}

// Parameter names are extracted from the real declarator's identifier
// leaf, never a placeholder.
func TestParameterNamesAreExtractedFromDeclarator(t *testing.T) {
	m, diags := lowerSource(t, `int add(int first, int second) { return first + second; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	fn := findFunc(t, m, "add")
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Name != "first" || fn.Params[1].Name != "second" {
		t.Fatalf("expected param names first/second, got %q/%q", fn.Params[0].Name, fn.Params[1].Name)
	}
}
