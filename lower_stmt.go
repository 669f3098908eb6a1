package c3

// VisitCondition lowers `if (cond) true [else false]` by building both
// branch blocks in isolation via buildBasicBlock, then emitting the
// conditional branch into the block that was current before either
// branch was built (spec §4.5 "Structured control flow"). Both
// branches converge on a shared join block unless a branch already
// terminated itself (e.g. with a `return`).
func (l *Lowerer) VisitCondition(n *ConditionNode) error {
	ctx := l.top()
	if ctx.terminated {
		return nil
	}

	cond, err := l.rvalue(n.Cond, nil)
	if err != nil {
		return err
	}

	trueBlock := ctx.fn.NewBlock("")
	falseBlock := ctx.fn.NewBlock("")
	join := ctx.fn.NewBlock("")

	ctx.cur.NewCondBr(cond, trueBlock, falseBlock)

	if err := l.buildBasicBlock(ctx, trueBlock, n.TrueBranch, join); err != nil {
		return err
	}
	if err := l.buildBasicBlock(ctx, falseBlock, n.FalseBranch, join); err != nil {
		return err
	}

	ctx.cur = join
	ctx.terminated = false
	return nil
}

// VisitWhileLoop lowers `while (cond) body` into a condition-test block
// that either falls through to a freshly built body block (looping back
// to itself) or exits to the block after the loop. A loop that starts
// in already-terminated code is unreachable and is skipped entirely,
// matching the original's dead-code guard.
func (l *Lowerer) VisitWhileLoop(n *WhileLoopNode) error {
	ctx := l.top()
	if ctx.terminated {
		return nil
	}

	whileBlock := ctx.fn.NewBlock("")
	ctx.cur.NewBr(whileBlock)

	ctx.cur = whileBlock
	cond, err := l.rvalue(n.Cond, nil)
	if err != nil {
		return err
	}

	bodyBlock := ctx.fn.NewBlock("")
	after := ctx.fn.NewBlock("")
	whileBlock.NewCondBr(cond, bodyBlock, after)

	if err := l.buildBasicBlock(ctx, bodyBlock, n.Body, whileBlock); err != nil {
		return err
	}

	ctx.cur = after
	ctx.terminated = false
	return nil
}

// VisitReturn stores the (possibly type-coerced) return value into the
// function's return slot, if any, and branches to the unified return
// block rather than emitting its own ret (spec §4.5 "Return-block
// unification"). A bare `return;` in a void function stores nothing.
func (l *Lowerer) VisitReturn(n *ReturnNode) error {
	ctx := l.top()
	if n.Value != nil {
		v, err := l.rvalue(n.Value, ctx.returnType)
		if err != nil {
			return err
		}
		ctx.cur.NewStore(v, ctx.returnSlot)
	}
	ctx.cur.NewBr(ctx.returnBlock)
	ctx.terminated = true
	return nil
}
