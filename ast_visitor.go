package c3

// Visitor is the single dispatch point every Node accepts (spec
// §4.3). The IR lowerer is the primary implementation; tests and
// debugging tools can implement it too without touching the node
// types themselves.
type Visitor interface {
	VisitNop(*NopNode) error
	VisitSequence(*SequenceNode) error
	VisitVariableRef(*VariableRefNode) error
	VisitVariableDec(*VariableDecNode) error
	VisitFunctionRef(*FunctionRefNode) error
	VisitFunctionProto(*FunctionProtoNode) error
	VisitFunctionDef(*FunctionDefNode) error
	VisitStructMemberRef(*StructMemberRefNode) error
	VisitFloatingPoint(*FloatingPointNode) error
	VisitInteger(*IntegerNode) error
	VisitConstantArray(*ConstantArrayNode) error
	VisitUnaryOp(*UnaryOpNode) error
	VisitBinaryOp(*BinaryOpNode) error
	VisitFunctionCall(*FunctionCallNode) error
	VisitCondition(*ConditionNode) error
	VisitWhileLoop(*WhileLoopNode) error
	VisitReturn(*ReturnNode) error
	VisitInlineAsm(*InlineAsmNode) error
}
