package c3

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// lvalue visits e and asserts the result is an address: every
// lvalue-producing node (VariableRef, a `*` dereference, StructMemberRef,
// an assignment) leaves its address in l.value, so lvalue just runs the
// visit and hands it back without a load.
func (l *Lowerer) lvalue(e Expr) (value.Value, error) {
	if !e.IsLvalue() {
		panicInvariant("lvalue() called on rvalue expression")
	}
	if err := e.Accept(l); err != nil {
		return nil, err
	}
	return l.value, nil
}

// rvalue visits e, loading through its address if e is an lvalue, then
// coerces the result to target when target is a differently-sized
// integer type (spec §4.5 "Implicit integer conversion"). Width comes
// from the LLVM type's real bit count, never from Type.Size() — that
// accessor's Int32-reports-8 anomaly (spec §9) is a sizeof() artifact
// that was never wired into actual codegen.
func (l *Lowerer) rvalue(e Expr, target *Type) (value.Value, error) {
	ctx := l.top()
	if err := e.Accept(l); err != nil {
		return nil, err
	}
	v := l.value
	if e.IsLvalue() {
		v = ctx.cur.NewLoad(v)
	}
	if target != nil && target.IsInteger() && e.ExprType().IsInteger() {
		fromW, toW := llvmBitWidth(e.ExprType().Kind), llvmBitWidth(target.Kind)
		to := l.types.Lower(target)
		switch {
		case toW > fromW:
			v = ctx.cur.NewSExt(v, to)
		case toW < fromW:
			v = ctx.cur.NewTrunc(v, to)
		}
	}
	return v, nil
}

// llvmBitWidth is the actual LLVM integer width backing a TypeKind,
// independent of Type.Size()'s intentionally wrong sizeof()-style
// answer for Int32/Int64 (both 8).
func llvmBitWidth(k TypeKind) int {
	switch k {
	case KindBool:
		return 1
	case KindInt8:
		return 8
	case KindInt32:
		return 32
	case KindInt64:
		return 64
	default:
		panicInvariant("llvmBitWidth: non-integer kind %s", k)
		return 0
	}
}

func (l *Lowerer) VisitVariableRef(n *VariableRefNode) error {
	addr, ok := l.namedValues[n.Var.GlobalName]
	if !ok {
		panicInvariant("VisitVariableRef: %q not in scope at lowering time", n.Var.GlobalName)
	}
	l.value = addr
	return nil
}

func (l *Lowerer) VisitFunctionRef(n *FunctionRefNode) error {
	l.value = l.declareFunc(n.Func)
	return nil
}

func (l *Lowerer) VisitFloatingPoint(n *FloatingPointNode) error {
	l.value = constant.NewFloat(n.Value, types.Double)
	return nil
}

// VisitInteger always constructs a 64-bit constant regardless of the
// node's own declared type; narrowing to a smaller destination happens
// later, in rvalue's cast step, exactly as in the original.
func (l *Lowerer) VisitInteger(n *IntegerNode) error {
	l.value = constant.NewInt(n.Value, types.I64)
	return nil
}

// VisitConstantArray builds an immutable global named ".str.N" holding
// the byte string (its linkage is left at the default; it is not made
// private or unnamed_addr) and returns a pointer to its first element, matching the
// original's "always decay a literal array to T*" behavior (spec
// §4.4's ConstantArrayNode.ExprType is PointerTo(Int8)).
func (l *Lowerer) VisitConstantArray(n *ConstantArrayNode) error {
	data := constant.NewCharArrayFromString(string(n.Bytes))
	gv := l.module.NewGlobalDef(fmt.Sprintf(".str.%d", l.strings), data)
	l.strings++
	gv.Immutable = true
	zero := constant.NewInt(0, types.I64)
	l.value = l.top().cur.NewGetElementPtr(gv, zero, zero)
	return nil
}

// VisitUnaryOp implements the four unary operators' codegen (spec
// §4.4 "Unary operators"). `&` emits no instruction of its own: its
// operand's own visit result (an address, since buildUnaryOp requires
// an lvalue) already IS the pointer value. `*` rvalue-loads its pointer
// operand; the loaded pointer is then used as an address wherever this
// node is itself later treated as an lvalue.
func (l *Lowerer) VisitUnaryOp(n *UnaryOpNode) error {
	ctx := l.top()
	switch n.Op {
	case UnaryAddrOf:
		addr, err := l.lvalue(n.Operand)
		if err != nil {
			return err
		}
		l.value = addr
	case UnaryDeref:
		ptr, err := l.rvalue(n.Operand, nil)
		if err != nil {
			return err
		}
		l.value = ptr
	case UnaryPlus:
		v, err := l.rvalue(n.Operand, n.ExprType())
		if err != nil {
			return err
		}
		l.value = v
	case UnaryMinus:
		v, err := l.rvalue(n.Operand, n.ExprType())
		if err != nil {
			return err
		}
		if n.ExprType().IsFloatingPoint() {
			l.value = ctx.cur.NewFNeg(v)
		} else {
			l.value = ctx.cur.NewSub(constant.NewInt(0, v.Type().(*types.IntType)), v)
		}
	default:
		panicInvariant("VisitUnaryOp: unhandled operator %s", n.Op)
	}
	return nil
}

// VisitBinaryOp dispatches arithmetic/comparison codegen on whether the
// operand type is floating point or integer, per spec §4.4. Assignment
// is the one binary form that yields an address rather than a computed
// value: it stores, then leaves the destination's own address in
// l.value so a chained `a = b = c` keeps working.
func (l *Lowerer) VisitBinaryOp(n *BinaryOpNode) error {
	ctx := l.top()

	if n.Op == BinAssign {
		addr, err := l.lvalue(n.Left)
		if err != nil {
			return err
		}
		v, err := l.rvalue(n.Right, n.Left.ExprType())
		if err != nil {
			return err
		}
		ctx.cur.NewStore(v, addr)
		l.value = addr
		return nil
	}

	// Arithmetic computes in the node's own result type, which the parser
	// already widened to int64 for mixed-width integer operands; a
	// comparison (result type bool) computes in the wider operand type.
	operandType := n.ExprType()
	if n.Op.IsComparison() {
		operandType = n.Left.ExprType()
		if rt := n.Right.ExprType(); rt.IsInteger() && operandType.IsInteger() &&
			llvmBitWidth(rt.Kind) > llvmBitWidth(operandType.Kind) {
			operandType = rt
		}
	}
	lhs, err := l.rvalue(n.Left, operandType)
	if err != nil {
		return err
	}
	rhs, err := l.rvalue(n.Right, operandType)
	if err != nil {
		return err
	}

	isFloat := operandType.IsFloatingPoint()
	switch n.Op {
	case BinAdd:
		if isFloat {
			l.value = ctx.cur.NewFAdd(lhs, rhs)
		} else {
			l.value = ctx.cur.NewAdd(lhs, rhs)
		}
	case BinSub:
		if isFloat {
			l.value = ctx.cur.NewFSub(lhs, rhs)
		} else {
			l.value = ctx.cur.NewSub(lhs, rhs)
		}
	case BinMul:
		if isFloat {
			l.value = ctx.cur.NewFMul(lhs, rhs)
		} else {
			l.value = ctx.cur.NewMul(lhs, rhs)
		}
	case BinDiv:
		if isFloat {
			l.value = ctx.cur.NewFDiv(lhs, rhs)
		} else {
			// operandType.IsSigned() is hardcoded true (spec §9), so
			// every integer division lowers to a signed divide.
			l.value = ctx.cur.NewSDiv(lhs, rhs)
		}
	case BinLt, BinLe, BinGt, BinGe, BinEq, BinNe:
		if isFloat {
			l.value = ctx.cur.NewFCmp(floatPredFor(n.Op), lhs, rhs)
		} else {
			l.value = ctx.cur.NewICmp(intPredFor(n.Op), lhs, rhs)
		}
	default:
		panicInvariant("VisitBinaryOp: unhandled operator %s", n.Op)
	}
	return nil
}

func intPredFor(op BinaryOp) ir.IntPred {
	switch op {
	case BinLt:
		return ir.IntSLT
	case BinLe:
		return ir.IntSLE
	case BinGt:
		return ir.IntSGT
	case BinGe:
		return ir.IntSGE
	case BinEq:
		return ir.IntEQ
	case BinNe:
		return ir.IntNE
	default:
		panicInvariant("intPredFor: non-comparison operator %s", op)
		return 0
	}
}

func floatPredFor(op BinaryOp) ir.FloatPred {
	switch op {
	case BinLt:
		return ir.FloatOLT
	case BinLe:
		return ir.FloatOLE
	case BinGt:
		return ir.FloatOGT
	case BinGe:
		return ir.FloatOGE
	case BinEq:
		return ir.FloatOEQ
	case BinNe:
		return ir.FloatONE
	default:
		panicInvariant("floatPredFor: non-comparison operator %s", op)
		return 0
	}
}

// VisitFunctionCall rvalue-loads every argument and the callee itself;
// loading the callee is a no-op since a FunctionRefNode is never an
// lvalue, matching the original's call site exactly.
func (l *Lowerer) VisitFunctionCall(n *FunctionCallNode) error {
	ctx := l.top()
	callee, err := l.rvalue(n.Callee, nil)
	if err != nil {
		return err
	}
	argTypes := n.Callee.ExprType().Signature.ArgTypes
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := l.rvalue(a, argTypes[i])
		if err != nil {
			return err
		}
		args[i] = v
	}
	l.value = ctx.cur.NewCall(callee, args...)
	return nil
}

// VisitStructMemberRef GEPs directly off the struct expression's raw
// visit result without routing it through lvalue()/rvalue(): struct
// member selection only ever reaches this node with an already
// address-valued struct operand (spec §4.4 "Selection" always produces
// an lvalue base, even across a chain of nested members).
func (l *Lowerer) VisitStructMemberRef(n *StructMemberRefNode) error {
	if err := n.StructExpr.Accept(l); err != nil {
		return err
	}
	addr := l.value
	zero := constant.NewInt(0, types.I64)
	// Struct-indexing GEP operands must be i32 constants; only the
	// leading pointer-deref index is free to be any integer width.
	idx := constant.NewInt(int64(n.FieldIndex), types.I32)
	l.value = l.top().cur.NewGetElementPtr(addr, zero, idx)
	return nil
}
