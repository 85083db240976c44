package lower

import (
	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/internal/ir"
	"github.com/nanoc-lang/nanoc/pkg/ast"
)

// lowerStmt lowers one statement into the current block, descending the
// recursion-depth counter checked against maxStatementDepth. Exceeding
// the ceiling drops the subtree silently, consistent with the parser
// having already surfaced whatever pathological nesting produced it.
func (l *Lowerer) lowerStmt(s ast.Stmt) {
	if s == nil {
		return
	}
	l.stmtDepth++
	defer func() { l.stmtDepth-- }()
	if l.stmtDepth > maxStatementDepth {
		return
	}

	switch v := s.(type) {
	case *ast.CompoundStmt:
		for _, inner := range v.Stmts {
			if !l.b.IsOpen() {
				break
			}
			l.lowerStmt(inner)
		}
	case *ast.DeclStmt:
		l.lowerLocalDecl(v.Decl)
	case *ast.ExprStmt:
		if v.X != nil {
			l.lowerExpr(v.X)
		}
	case *ast.EmptyStmt:
		// nothing to do
	case *ast.IfStmt:
		l.lowerIfStmt(v)
	case *ast.WhileStmt:
		l.lowerWhileStmt(v)
	case *ast.DoWhileStmt:
		l.lowerDoWhileStmt(v)
	case *ast.ForStmt:
		l.lowerForStmt(v)
	case *ast.ReturnStmt:
		l.lowerReturnStmt(v)
	case *ast.BreakStmt:
		l.lowerBreakStmt(v)
	case *ast.ContinueStmt:
		l.lowerContinueStmt(v)
	case *ast.SwitchStmt:
		l.lowerSwitchStmt(v)
	case *ast.CaseStmt:
		l.lowerStmt(v.Stmt)
	case *ast.DefaultStmt:
		l.lowerStmt(v.Stmt)
	case *ast.LabeledStmt:
		l.lowerStmt(v.Stmt)
	case *ast.GotoStmt:
		// goto is parsed but not realized as control flow in this core;
		// the label it targets may not even correspond to a block this
		// lowerer has created. Lowering it as a no-op keeps the rest of
		// the function well-formed rather than aborting.
	case *ast.AsmStmt:
		// opaque inline assembly carries no IR-level effect in this core.
	default:
		l.errorf(diag.KindOther, s.Pos(), "lowering: unsupported statement %T", s)
	}
}

// lowerLocalDecl handles a declaration appearing inside a function body:
// allocas are emitted in the current block, not hoisted to the entry
// block.
func (l *Lowerer) lowerLocalDecl(d ast.Decl) {
	l.declDepth++
	defer func() { l.declDepth-- }()
	if l.declDepth > maxDeclarationDepth {
		return
	}

	switch v := d.(type) {
	case *ast.DeclGroup:
		for _, inner := range v.Decls {
			l.lowerLocalDecl(inner)
		}
	case *ast.TypedefDecl:
		l.typedefs[v.Name] = v.Type
	case *ast.TagDecl:
		l.resolveType(v.Tag)
	case *ast.VarDecl:
		l.lowerLocalVarDecl(v)
	case *ast.FuncDecl:
		// a nested prototype (no body expected at block scope); register
		// it the same way a top-level prototype is registered.
		l.lowerFuncDecl(v)
	}
}

func (l *Lowerer) lowerLocalVarDecl(v *ast.VarDecl) {
	typ, ok := l.resolveType(v.Type)
	if !ok {
		typ = ir.I32
	}
	addr := l.b.CreateAlloca(v.Name, typ)
	l.locals[v.Name] = &localSlot{addr: addr, typ: typ, cType: v.Type}
	if v.Init != nil {
		val, srcType := l.lowerExpr(v.Init)
		val = l.coerce(val, srcType, typ)
		l.b.CreateStore(addr, val)
	}
}

// lowerIfStmt realizes if/if-else with explicit blocks: normalize the
// condition to i1, branch to then/(else|merge), and join any branch
// that falls off the end into merge.
func (l *Lowerer) lowerIfStmt(v *ast.IfStmt) {
	cond := l.lowerCondition(v.Cond)
	thenBlk := l.b.NewBlock(l.fresh("if.then"))
	mergeBlk := l.b.NewBlock(l.fresh("if.merge"))

	if v.Else != nil {
		elseBlk := l.b.NewBlock(l.fresh("if.else"))
		l.b.CreateCondBr(cond, thenBlk, elseBlk)

		l.b.SetInsertPoint(thenBlk)
		l.lowerStmt(v.Then)
		if l.b.IsOpen() {
			l.b.CreateBr(mergeBlk)
		}

		l.b.SetInsertPoint(elseBlk)
		l.lowerStmt(v.Else)
		if l.b.IsOpen() {
			l.b.CreateBr(mergeBlk)
		}
	} else {
		l.b.CreateCondBr(cond, thenBlk, mergeBlk)

		l.b.SetInsertPoint(thenBlk)
		l.lowerStmt(v.Then)
		if l.b.IsOpen() {
			l.b.CreateBr(mergeBlk)
		}
	}

	l.b.SetInsertPoint(mergeBlk)
}

func (l *Lowerer) lowerWhileStmt(v *ast.WhileStmt) {
	condBlk := l.b.NewBlock(l.fresh("while.cond"))
	bodyBlk := l.b.NewBlock(l.fresh("while.body"))
	endBlk := l.b.NewBlock(l.fresh("while.end"))

	l.b.CreateBr(condBlk)

	l.b.SetInsertPoint(condBlk)
	cond := l.lowerCondition(v.Cond)
	l.b.CreateCondBr(cond, bodyBlk, endBlk)

	l.pushLoop(condBlk, endBlk)
	l.b.SetInsertPoint(bodyBlk)
	l.lowerStmt(v.Body)
	if l.b.IsOpen() {
		l.b.CreateBr(condBlk)
	}
	l.popLoop()

	l.b.SetInsertPoint(endBlk)
}

func (l *Lowerer) lowerDoWhileStmt(v *ast.DoWhileStmt) {
	bodyBlk := l.b.NewBlock(l.fresh("do.body"))
	condBlk := l.b.NewBlock(l.fresh("do.cond"))
	endBlk := l.b.NewBlock(l.fresh("do.end"))

	l.b.CreateBr(bodyBlk)

	l.pushLoop(condBlk, endBlk)
	l.b.SetInsertPoint(bodyBlk)
	l.lowerStmt(v.Body)
	if l.b.IsOpen() {
		l.b.CreateBr(condBlk)
	}
	l.popLoop()

	l.b.SetInsertPoint(condBlk)
	cond := l.lowerCondition(v.Cond)
	l.b.CreateCondBr(cond, bodyBlk, endBlk)

	l.b.SetInsertPoint(endBlk)
}

func (l *Lowerer) lowerForStmt(v *ast.ForStmt) {
	if v.Init != nil {
		l.lowerStmt(v.Init)
	}

	condBlk := l.b.NewBlock(l.fresh("for.cond"))
	bodyBlk := l.b.NewBlock(l.fresh("for.body"))
	incBlk := l.b.NewBlock(l.fresh("for.inc"))
	endBlk := l.b.NewBlock(l.fresh("for.end"))

	l.b.CreateBr(condBlk)

	l.b.SetInsertPoint(condBlk)
	if v.Cond != nil {
		cond := l.lowerCondition(v.Cond)
		l.b.CreateCondBr(cond, bodyBlk, endBlk)
	} else {
		l.b.CreateBr(bodyBlk)
	}

	l.pushLoop(incBlk, endBlk)
	l.b.SetInsertPoint(bodyBlk)
	l.lowerStmt(v.Body)
	if l.b.IsOpen() {
		l.b.CreateBr(incBlk)
	}
	l.popLoop()

	l.b.SetInsertPoint(incBlk)
	if v.Post != nil {
		l.lowerExpr(v.Post)
	}
	if l.b.IsOpen() {
		l.b.CreateBr(condBlk)
	}

	l.b.SetInsertPoint(endBlk)
}

func (l *Lowerer) lowerReturnStmt(v *ast.ReturnStmt) {
	if v.Value == nil {
		l.b.CreateRet(nil)
		return
	}
	val, srcType := l.lowerExpr(v.Value)
	val = l.coerce(val, srcType, l.fn.ReturnType)
	l.b.CreateRet(val)
}

// lowerBreakStmt and lowerContinueStmt branch to the top of the loop
// stack; an empty stack (break/continue outside any loop) emits an
// unreachable terminator and reports the diagnostic the parser already
// recognized as a syntactic possibility but left for lowering to judge
// semantically.
func (l *Lowerer) lowerBreakStmt(v *ast.BreakStmt) {
	if len(l.loopStack) == 0 {
		l.errorf(diag.KindBreakOutsideLoop, v.Pos(), "break statement outside of loop")
		l.b.CreateUnreachable()
		return
	}
	top := l.loopStack[len(l.loopStack)-1]
	l.b.CreateBr(top.breakTarget)
}

func (l *Lowerer) lowerContinueStmt(v *ast.ContinueStmt) {
	if len(l.loopStack) == 0 || l.loopStack[len(l.loopStack)-1].continueTarget == nil {
		l.errorf(diag.KindContinueOutsideLoop, v.Pos(), "continue statement outside of loop")
		l.b.CreateUnreachable()
		return
	}
	top := l.loopStack[len(l.loopStack)-1]
	l.b.CreateBr(top.continueTarget)
}

// switchArm is one run of fallthrough-sharing code in a switch body: the
// (possibly several, for grouped labels like `case 1: case 2:`) values
// that select it, whether it is also the `default:` target, and the
// statements that run once control reaches it.
type switchArm struct {
	values    []int64
	isDefault bool
	body      []ast.Stmt
}

// flattenSwitchBody walks a switch's compound-statement body and turns it
// into a flat arm sequence. Grouped case labels parse as nested CaseStmt
// values (the C grammar's `labeled-statement: case const-expr : statement`
// makes the labeled statement itself another label when labels are
// adjacent, per pkg/ast/stmt.go's CaseStmt.Stmt), so a label's Stmt is
// descended into rather than treated as that label's exclusive body: the
// descent stops, and the current arm starts accumulating real statements,
// as soon as it reaches something that isn't itself a label.
func (l *Lowerer) flattenSwitchBody(stmts []ast.Stmt) []switchArm {
	var arms []switchArm
	cur := func() *switchArm {
		if len(arms) == 0 {
			arms = append(arms, switchArm{})
		}
		return &arms[len(arms)-1]
	}
	var walk func(s ast.Stmt)
	walk = func(s ast.Stmt) {
		switch v := s.(type) {
		case *ast.CaseStmt:
			if len(cur().body) > 0 {
				arms = append(arms, switchArm{})
			}
			if val, ok := l.evalConstInt(v.Value); ok {
				cur().values = append(cur().values, val)
			}
			walk(v.Stmt)
		case *ast.DefaultStmt:
			if len(cur().body) > 0 {
				arms = append(arms, switchArm{})
			}
			cur().isDefault = true
			walk(v.Stmt)
		default:
			cur().body = append(cur().body, s)
		}
	}
	for _, item := range stmts {
		walk(item)
	}
	return arms
}

// lowerSwitchStmt lowers a switch into an if/else-if chain of equality
// comparisons against the tag, one comparison per case
// value (skipping `default`, which is the chain's final fallback rather
// than a comparison of its own), reusing the existing loop-stack break
// target instead of a jump table. A matched arm whose body falls off the
// end (no break/return/etc.) branches straight into the next arm's body
// without re-testing the tag, which is what gives `case 1: ...; case 2:
// ...` real C fallthrough instead of re-entering the comparison chain.
func (l *Lowerer) lowerSwitchStmt(v *ast.SwitchStmt) {
	tagVal, _ := l.lowerExpr(v.Tag)
	endBlk := l.b.NewBlock(l.fresh("switch.end"))

	// break inside the switch targets its end block, but continue still
	// belongs to the enclosing loop (or is an error when there is none), so
	// the enclosing continue target is carried down unchanged.
	var cont *ir.BasicBlock
	if len(l.loopStack) > 0 {
		cont = l.loopStack[len(l.loopStack)-1].continueTarget
	}
	l.pushLoop(cont, endBlk)
	body, _ := v.Body.(*ast.CompoundStmt)
	if body == nil {
		l.lowerStmt(v.Body)
		l.popLoop()
		if l.b.IsOpen() {
			l.b.CreateBr(endBlk)
		}
		l.b.SetInsertPoint(endBlk)
		return
	}

	arms := l.flattenSwitchBody(body.Stmts)
	armBlks := make([]*ir.BasicBlock, len(arms))
	var defaultBlk *ir.BasicBlock
	for i := range arms {
		armBlks[i] = l.b.NewBlock(l.fresh("switch.case"))
		if arms[i].isDefault {
			defaultBlk = armBlks[i]
		}
	}
	fallback := endBlk
	if defaultBlk != nil {
		fallback = defaultBlk
	}

	// Comparison chain: test every case value in source order, branching
	// straight to its arm's body block on match, or to a freshly created
	// continuation block on mismatch. `default` contributes no comparison.
	for i, arm := range arms {
		for _, val := range arm.values {
			nextBlk := l.b.NewBlock(l.fresh("switch.next"))
			cmp := l.b.CreateICmp(ir.CmpEQ, tagVal, ir.ConstInt{Typ: tagVal.ValueType(), Value: val})
			l.b.CreateCondBr(cmp, armBlks[i], nextBlk)
			l.b.SetInsertPoint(nextBlk)
		}
	}
	if l.b.IsOpen() {
		l.b.CreateBr(fallback)
	}

	for i, arm := range arms {
		l.b.SetInsertPoint(armBlks[i])
		for _, s := range arm.body {
			l.lowerStmt(s)
		}
		if l.b.IsOpen() {
			// Fall through to the next arm's body (real C fallthrough),
			// or out of the switch entirely from the last arm.
			next := endBlk
			if i+1 < len(arms) {
				next = armBlks[i+1]
			}
			l.b.CreateBr(next)
		}
	}

	l.popLoop()
	l.b.SetInsertPoint(endBlk)
}

func (l *Lowerer) pushLoop(continueTarget, breakTarget *ir.BasicBlock) {
	l.loopStack = append(l.loopStack, loopTarget{continueTarget: continueTarget, breakTarget: breakTarget})
}

func (l *Lowerer) popLoop() {
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
}

// lowerCondition evaluates e and normalizes the result to i1, inserting
// an explicit `!= 0` comparison when the value is a wider integer.
func (l *Lowerer) lowerCondition(e ast.Expr) ir.Value {
	val, _ := l.lowerExpr(e)
	if it, ok := val.ValueType().(ir.IntType); ok && it.Bits == 1 {
		return val
	}
	zero := zeroValue(val.ValueType())
	return l.b.CreateICmp(ir.CmpNE, val, zero)
}
