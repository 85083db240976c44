package lower

import (
	"github.com/nanoc-lang/nanoc/internal/ir"
	"github.com/nanoc-lang/nanoc/pkg/ast"
)

// lowerFuncDecl lowers one function prototype or definition. A
// prototype-only FuncDecl (no body) registers a Declaration shell so
// later calls can resolve it; it contributes no blocks.
func (l *Lowerer) lowerFuncDecl(d *ast.FuncDecl) {
	if existing, ok := l.funcs[d.Name]; !ok || existing.Body == nil {
		l.funcs[d.Name] = d
	}

	retType, ok := l.resolveType(d.Return)
	if !ok {
		retType = ir.Void
	}
	params := make([]*ir.Param, len(d.Params))
	for i, p := range d.Params {
		pt, ok := l.resolveType(paramDecayType(p.Type))
		if !ok {
			pt = ir.I32
		}
		params[i] = &ir.Param{Name: p.Name, Typ: pt, Index: i}
	}

	fn := &ir.Function{
		Name:        d.Name,
		Params:      params,
		ReturnType:  retType,
		Variadic:    d.Variadic,
		Declaration: d.Body == nil,
	}
	l.module.AddFunction(fn)
	if d.Body == nil {
		return
	}

	l.fn = fn
	l.b = ir.NewBuilder(fn)
	l.locals = make(map[string]*localSlot)
	l.loopStack = nil
	l.stmtDepth = 0
	l.declDepth = 0
	l.blockSeq = 0

	entry := l.b.NewBlock("entry")
	l.b.SetInsertPoint(entry)

	for i, p := range d.Params {
		if p.Name == "" {
			continue
		}
		slotType := params[i].Typ
		addr := l.b.CreateAlloca(p.Name, slotType)
		l.b.CreateStore(addr, params[i])
		l.locals[p.Name] = &localSlot{addr: addr, typ: slotType, cType: paramDecayType(p.Type)}
	}

	l.lowerStmt(d.Body)
	l.completeTerminators(fn)

	l.fn, l.b, l.locals, l.loopStack = nil, nil, nil, nil
}

// paramDecayType applies C's parameter-type adjustment: an array
// parameter decays to a pointer to its element type (`int a[3]` and
// `int *a` are the same parameter type).
func paramDecayType(t ast.Type) ast.Type {
	if at, ok := t.(*ast.ArrayType); ok {
		return ast.NewPointerType(at.Pos(), at.Elem, ast.Qualifiers{})
	}
	return t
}

// completeTerminators is the terminator completion sweep: any block left
// open by partial lowering (most often after an
// error, or simply falling off the end of a void function) is closed
// with a return so the module still passes ir.Module.Verify().
func (l *Lowerer) completeTerminators(fn *ir.Function) {
	for _, b := range fn.Blocks {
		if b.IsTerminated() {
			continue
		}
		l.b.SetInsertPoint(b)
		if _, isVoid := fn.ReturnType.(ir.VoidType); isVoid {
			l.b.CreateRet(nil)
		} else {
			l.b.CreateRet(zeroValue(fn.ReturnType))
		}
	}
}

// zeroValue returns the canonical zero constant for t, used by the
// terminator completion sweep for its synthetic returns and by the
// `x != 0` condition normalization. A variable declared with no
// initializer is left as whatever the alloca contains — C does not
// zero-initialize automatic storage, so no zero-store is emitted there.
func zeroValue(t ir.Type) ir.Value {
	switch v := t.(type) {
	case ir.PointerType:
		return ir.ConstNull{Typ: v}
	case ir.IntType:
		return ir.ConstInt{Typ: v, Value: 0}
	default:
		return ir.ConstInt{Typ: ir.I32, Value: 0}
	}
}

func (l *Lowerer) lookupFunction(name string) (*ir.Function, *ast.FuncDecl, bool) {
	fn := l.module.FindFunction(name)
	decl, ok := l.funcs[name]
	if fn == nil || !ok {
		return nil, nil, false
	}
	return fn, decl, true
}
