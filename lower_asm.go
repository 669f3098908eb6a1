package c3

import (
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// VisitInlineAsm lowers an asm(...) block to a genuine inline
// assembler call, matching the original's
// LLVMCodeGenerator::visit(InlineAsmNode&): build the call's function
// type from the operand types, join every operand's constraint plus
// the clobber list into one comma-separated constraint string, and
// call the resulting ir.InlineAsm value with the side-effect flag set
// (an asm block is never pure — it may read or write memory the
// optimizer can't see). Indirect ("*"-prefixed) operands — both
// genuine indirect inputs and outputs the parser already reclassified
// as indirect inputs (spec §4.6) — are passed by address; every other
// operand is passed by its materialized value.
//
// Storing a direct output's call result back into its lvalue is left
// undone, same as the original's own "// TODO: store outputs" (spec
// §9): each direct output's address is still resolved here (for scope
// and type correctness, and so the eventual store-back has something
// to write through), but nothing writes to it yet.
func (l *Lowerer) VisitInlineAsm(n *InlineAsmNode) error {
	ctx := l.top()

	var constraints []string
	for _, out := range n.Outputs {
		if _, err := l.lvalue(out.Expr); err != nil {
			return err
		}
		constraints = append(constraints, out.Constraint)
	}

	var argTypes []types.Type
	var args []value.Value
	for _, in := range n.Inputs {
		var v value.Value
		var err error
		if strings.Contains(in.Constraint, "*") {
			v, err = l.lvalue(in.Expr)
		} else {
			v, err = l.rvalue(in.Expr, nil)
		}
		if err != nil {
			return err
		}
		args = append(args, v)
		argTypes = append(argTypes, v.Type())
		constraints = append(constraints, in.Constraint)
	}

	constraints = append(constraints, n.Clobbers...)

	fnType := types.NewFunc(l.asmResultType(n.Outputs), argTypes...)
	asm := ir.NewInlineAsm(fnType, n.Assembly, strings.Join(constraints, ","))
	asm.SideEffect = true

	l.value = ctx.cur.NewCall(asm, args...)
	return nil
}

// asmResultType builds the asm call's result type (spec §4.6): zero
// outputs is void, exactly one output is that output's own type, and
// more than one is an anonymous aggregate of all of them in order —
// LLVM's own convention for a multi-output inline-asm expression.
func (l *Lowerer) asmResultType(outputs []AsmOperand) types.Type {
	switch len(outputs) {
	case 0:
		return types.Void
	case 1:
		return l.types.Lower(outputs[0].Expr.ExprType())
	default:
		fields := make([]types.Type, len(outputs))
		for i, out := range outputs {
			fields[i] = l.types.Lower(out.Expr.ExprType())
		}
		st := types.NewStruct()
		st.Fields = fields
		return st
	}
}
