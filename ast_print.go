package c3

import (
	"fmt"
	"strings"
)

// PrintAST renders root as an indented tree, mirroring the original
// compiler's pre-codegen AST dump (main.cpp prints the AST right after
// a successful parse, before handing it to the code generator).
func PrintAST(root Node) string {
	p := &astPrinter{}
	_ = root.Accept(p)
	return p.buf.String()
}

type astPrinter struct {
	buf    strings.Builder
	indent int
}

func (p *astPrinter) line(format string, args ...any) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *astPrinter) child(n Node) {
	p.indent++
	_ = n.Accept(p)
	p.indent--
}

func (p *astPrinter) VisitNop(n *NopNode) error { p.line("Nop"); return nil }

func (p *astPrinter) VisitSequence(n *SequenceNode) error {
	p.line("Sequence")
	for _, c := range n.Children {
		p.child(c)
	}
	return nil
}

func (p *astPrinter) VisitVariableRef(n *VariableRefNode) error {
	p.line("VariableRef %s: %s", n.Var.GlobalName, n.Type)
	return nil
}

func (p *astPrinter) VisitVariableDec(n *VariableDecNode) error {
	p.line("VariableDec %s: %s", n.Var.GlobalName, n.Var.Type)
	if n.Init != nil {
		p.child(n.Init)
	}
	return nil
}

func (p *astPrinter) VisitFunctionRef(n *FunctionRefNode) error {
	p.line("FunctionRef %s: %s", n.Func.GlobalName, n.Type)
	return nil
}

func (p *astPrinter) VisitFunctionProto(n *FunctionProtoNode) error {
	p.line("FunctionProto %s: %s", n.Func.GlobalName, n.Func.Signature)
	return nil
}

func (p *astPrinter) VisitFunctionDef(n *FunctionDefNode) error {
	p.line("FunctionDef %s: %s", n.Proto.Func.GlobalName, n.Proto.Func.Signature)
	p.child(n.Body)
	return nil
}

func (p *astPrinter) VisitStructMemberRef(n *StructMemberRefNode) error {
	p.line("StructMemberRef .%s: %s", n.FieldName, n.Type)
	p.child(n.StructExpr)
	return nil
}

func (p *astPrinter) VisitFloatingPoint(n *FloatingPointNode) error {
	p.line("FloatingPoint %g", n.Value)
	return nil
}

func (p *astPrinter) VisitInteger(n *IntegerNode) error {
	p.line("Integer %d", n.Value)
	return nil
}

func (p *astPrinter) VisitConstantArray(n *ConstantArrayNode) error {
	p.line("ConstantArray %q", string(n.Bytes))
	return nil
}

func (p *astPrinter) VisitUnaryOp(n *UnaryOpNode) error {
	p.line("UnaryOp %s: %s", n.Op, n.Type)
	p.child(n.Operand)
	return nil
}

func (p *astPrinter) VisitBinaryOp(n *BinaryOpNode) error {
	p.line("BinaryOp %s: %s", n.Op, n.Type)
	p.child(n.Left)
	p.child(n.Right)
	return nil
}

func (p *astPrinter) VisitFunctionCall(n *FunctionCallNode) error {
	p.line("FunctionCall: %s", n.Type)
	p.child(n.Callee)
	for _, a := range n.Args {
		p.child(a)
	}
	return nil
}

func (p *astPrinter) VisitCondition(n *ConditionNode) error {
	p.line("Condition")
	p.child(n.Cond)
	p.child(n.TrueBranch)
	p.child(n.FalseBranch)
	return nil
}

func (p *astPrinter) VisitWhileLoop(n *WhileLoopNode) error {
	p.line("WhileLoop")
	p.child(n.Cond)
	p.child(n.Body)
	return nil
}

func (p *astPrinter) VisitReturn(n *ReturnNode) error {
	p.line("Return")
	if n.Value != nil {
		p.child(n.Value)
	}
	return nil
}

func (p *astPrinter) VisitInlineAsm(n *InlineAsmNode) error {
	p.line("InlineAsm %q", n.Assembly)
	return nil
}
