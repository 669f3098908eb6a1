package c3

import (
	"strconv"
	"strings"
)

// parseExpression is the operator-precedence (Pratt) climber described
// in spec §4.4. Unary operators short-circuit the climb entirely: they
// parse their operand at the default (lowest) precedence, so a unary
// operator's RHS greedily swallows any trailing binary expression
// rather than binding only to the next primary. This mirrors the
// original compiler's parser exactly; it reads as a quirk but changing
// it would change which programs parse.
func (p *Parser) parseExpression(minPrec precedence) Expr {
	if p.peekUnaryOp() {
		tok := p.advance()
		rhsTok := p.peek()
		rhs := p.parseExpression(precedence{})
		if rhs == nil {
			return nil
		}
		return p.buildUnaryOp(tok, rhsTok, rhs)
	}

	exp := p.parsePrimary()
	if exp == nil {
		return nil
	}

	if p.peekPunct("(") {
		call := p.parseFunctionCall(exp)
		if call == nil {
			return nil
		}
		exp = call
	}

	for p.peekBinaryOp() {
		prec := binaryPrecedence[p.peek().Value]
		if prec.Rank < minPrec.Rank || (prec.Rank == minPrec.Rank && !minPrec.RTOL) {
			break
		}
		next := p.parseBinopRHS(exp)
		if next == nil {
			return nil
		}
		exp = next
	}

	return exp
}

func (p *Parser) peekUnaryOp() bool {
	t := p.peek()
	return t.Type == TokenPunctuator && unaryOps[t.Value]
}

func (p *Parser) peekBinaryOp() bool {
	t := p.peek()
	if t.Type != TokenPunctuator {
		return false
	}
	_, ok := binaryPrecedence[t.Value]
	return ok
}

// buildUnaryOp applies the type/lvalue rules for each of the four
// unary operators (spec §4.4 "Unary operators").
func (p *Parser) buildUnaryOp(opTok, operandTok Token, rhs Expr) Expr {
	switch opTok.Value {
	case "&":
		if !rhs.IsLvalue() {
			p.errorf(ErrTyping, operandTok, "operand to '&' operator must be an lvalue")
			return nil
		}
		n := &UnaryOpNode{Op: UnaryAddrOf, Operand: rhs}
		n.setType(p.types.PointerTo(rhs.ExprType()))
		return n
	case "*":
		if rhs.ExprType().Kind != KindPointer {
			p.errorf(ErrTyping, operandTok, "operand to '*' operator must be a pointer type")
			return nil
		}
		n := &UnaryOpNode{Op: UnaryDeref, Operand: rhs}
		n.setType(rhs.ExprType().Pointee)
		n.Lvalue_ = true
		return n
	case "+":
		n := &UnaryOpNode{Op: UnaryPlus, Operand: rhs}
		n.setType(rhs.ExprType())
		return n
	case "-":
		n := &UnaryOpNode{Op: UnaryMinus, Operand: rhs}
		n.setType(rhs.ExprType())
		return n
	default:
		panicInvariant("buildUnaryOp: unhandled operator %q", opTok.Value)
		return nil
	}
}

// parsePrimary parses the atoms of an expression: variable and
// function references, numeric and character literals, string
// literals, and parenthesized sub-expressions (spec §4.4 "Primary
// expressions").
func (p *Parser) parsePrimary() Expr {
	if v, ok := p.tryParseVariable(); ok {
		n := &VariableRefNode{Var: v}
		n.setType(v.Type)
		n.Lvalue_ = true
		return n
	}
	if f, ok := p.tryParseFunction(); ok {
		n := &FunctionRefNode{Func: f}
		n.setType(p.types.Function(f.Signature))
		return n
	}
	if p.peek().Type == TokenNumber {
		tok := p.advance()
		if strings.ContainsRune(tok.Value, '.') {
			fv, _ := strconv.ParseFloat(tok.Value, 64)
			n := &FloatingPointNode{Value: fv}
			n.setType(p.types.Double())
			return n
		}
		iv, _ := strconv.ParseInt(tok.Value, 10, 64)
		n := &IntegerNode{Value: iv}
		n.setType(p.types.Int64())
		return n
	}
	if p.peek().Type == TokenCharacterConstant {
		tok := p.advance()
		var value int64
		for _, b := range []byte(tok.Value) {
			value = (value << 8) | int64(b)
		}
		n := &IntegerNode{Value: value}
		n.setType(p.types.Int64())
		return n
	}
	if p.peek().Type == TokenStringLiteral {
		tok := p.advance()
		n := &ConstantArrayNode{Bytes: []byte(tok.Value), ElementType: p.types.Int8()}
		n.setType(p.types.PointerTo(p.types.Int8()))
		return n
	}
	if p.peekPunct("(") {
		p.advance()
		exp := p.parseExpression(precedence{})
		if exp == nil {
			return nil
		}
		if !p.expectPunct(")") {
			return nil
		}
		return exp
	}
	p.errorf(ErrLexical, p.peek(), "unexpected token %s", p.peek())
	return nil
}

// parseBinopRHS consumes one binary operator and its RHS. "." and "->"
// are selection, handled specially rather than through the generic
// precedence climb (spec §4.4 "Selection").
func (p *Parser) parseBinopRHS(lhs Expr) Expr {
	tok := p.advance()
	if tok.Type != TokenPunctuator || tok.Value == ";" {
		p.errorf(ErrLexical, tok, "expected binary operator")
		return nil
	}

	if tok.Value == "." || tok.Value == "->" {
		return p.parseSelection(tok, lhs)
	}

	prec := binaryPrecedence[tok.Value]
	rhs := p.parseExpression(prec)
	if rhs == nil {
		return nil
	}

	op, _ := binaryOpFromPunctuator(tok.Value)
	resultType := lhs.ExprType()
	compatible := false

	if op.IsComparison() {
		lt, rt := lhs.ExprType(), rhs.ExprType()
		compatible = (lt.IsFloatingPoint() && rt.IsFloatingPoint()) || (lt.IsInteger() && rt.IsInteger())
		resultType = p.types.Bool()
	} else if lhs.ExprType().Equal(rhs.ExprType()) {
		compatible = true
	} else if lhs.ExprType().IsInteger() && rhs.ExprType().IsInteger() {
		compatible = true
		if op != BinAssign {
			resultType = p.types.Int64()
		}
	}

	if !compatible {
		p.errorf(ErrTyping, tok, "incompatible types to binary operator ('%s' and '%s')", lhs.ExprType(), rhs.ExprType())
	}

	n := &BinaryOpNode{Op: op, Left: lhs, Right: rhs}
	n.setType(resultType)
	n.Lvalue_ = op == BinAssign
	return n
}

// parseSelection implements `.` and `->` member access. `->` first
// dereferences its lhs (requiring a pointer), then both forms require
// a defined struct type and a matching field name.
func (p *Parser) parseSelection(tok Token, lhs Expr) Expr {
	if tok.Value == "->" {
		if lhs.ExprType().Kind != KindPointer {
			p.errorf(ErrTyping, tok, "dereferencing selection operator used on non-pointer type")
			return nil
		}
		deref := &UnaryOpNode{Op: UnaryDeref, Operand: lhs}
		deref.setType(lhs.ExprType().Pointee)
		deref.Lvalue_ = true
		lhs = deref
	}

	t := lhs.ExprType()
	if t.Kind != KindStruct {
		p.errorf(ErrTyping, tok, "selection operator used on non-struct type '%s'", t)
		return nil
	}
	if !t.IsDefined() {
		p.errorf(ErrTyping, tok, "selection operator used on undefined struct")
		return nil
	}

	memberTok := p.peek()
	if memberTok.Type != TokenIdentifier {
		p.errorf(ErrNaming, memberTok, "expected struct member")
		return nil
	}
	def := t.StructDefinition()
	idx := def.FieldIndex(memberTok.Value)
	if idx < 0 {
		p.errorf(ErrNaming, memberTok, "expected struct member")
		return nil
	}
	p.advance()

	n := &StructMemberRefNode{StructExpr: lhs, FieldIndex: idx, FieldName: memberTok.Value}
	n.setType(def.Fields[idx].Type)
	n.Lvalue_ = lhs.IsLvalue()
	return n
}

// parseFunctionCall parses `(arg, arg, ...)` against callee's already
// resolved function-typed signature (spec §4.4 "Function calls").
func (p *Parser) parseFunctionCall(callee Expr) Expr {
	if callee.ExprType().Kind != KindFunction {
		p.errorf(ErrTyping, p.peek(), "previous expression is not a function")
		return nil
	}
	if !p.expectPunct("(") {
		return nil
	}

	argTypes := callee.ExprType().Signature.ArgTypes
	args := make([]Expr, 0, len(argTypes))
	for i := range argTypes {
		if i > 0 && !p.expectPunct(",") {
			return nil
		}
		argTok := p.peek()
		arg := p.parseExpression(precedence{})
		if arg == nil {
			return nil
		}
		if !arg.ExprType().Equal(argTypes[i]) {
			p.errorf(ErrTyping, argTok, "invalid type for argument (expected '%s' but got '%s')", argTypes[i], arg.ExprType())
		}
		args = append(args, arg)
	}
	if !p.expectPunct(")") {
		return nil
	}

	n := &FunctionCallNode{Callee: callee, Args: args}
	n.setType(callee.ExprType().Signature.ReturnType)
	return n
}
