package c3

import "strings"

// parseInlineAsm parses `asm(ASSEMBLY : OUTPUTS : INPUTS : CLOBBERS)`
// (spec §4.6 "Inline assembly"). Each of the three operand lists after
// the assembly string is optional; a present list's operands are
// comma-separated string-literal constraints each followed by a
// parenthesized expression.
func (p *Parser) parseInlineAsm() Node {
	if !p.expectKeyword("asm") {
		return nil
	}
	if !p.expectPunct("(") {
		return nil
	}
	if p.peek().Type != TokenStringLiteral {
		p.errorf(ErrLexical, p.peek(), "expected string literal assembly")
		return nil
	}
	assembly := p.advance().Value

	var outputs, inputs []AsmOperand
	var clobbers []string

	if p.peekPunct(":") {
		p.advance()
		if p.peek().Type == TokenStringLiteral {
			for {
				optok := p.peek()
				constraint, exp := p.parseInlineAsmOperand()
				if exp == nil {
					return nil
				}
				if !exp.IsLvalue() {
					p.errorf(ErrTyping, optok, "output operand must be lvalue")
				}
				if strings.Contains(constraint, "*") {
					// indirect outputs are really inputs: the address
					// itself is passed, not written back through.
					inputs = append(inputs, AsmOperand{Constraint: constraint, Expr: exp})
				} else {
					outputs = append(outputs, AsmOperand{Constraint: constraint, Expr: exp})
				}
				if !p.peekPunct(",") {
					break
				}
				p.advance()
			}
		}
	}

	if p.peekPunct(":") {
		p.advance()
		if p.peek().Type == TokenStringLiteral {
			for {
				_, exp := p.parseInlineAsmOperand()
				if exp == nil {
					return nil
				}
				constraint := p.lastAsmConstraint
				inputs = append(inputs, AsmOperand{Constraint: constraint, Expr: exp})
				if !p.peekPunct(",") {
					break
				}
				p.advance()
			}
		}
	}

	if p.peekPunct(":") {
		p.advance()
		if p.peek().Type == TokenStringLiteral {
			for {
				if p.peek().Type != TokenStringLiteral {
					p.errorf(ErrLexical, p.peek(), "expected string literal clobber")
					return nil
				}
				if strings.Contains(p.peek().Value, ",") {
					p.errorf(ErrLexical, p.peek(), "invalid clobber")
				}
				clobbers = append(clobbers, "~{"+p.advance().Value+"}")
				if !p.peekPunct(",") {
					break
				}
				p.advance()
			}
		}
	}

	if !p.expectPunct(")") {
		return nil
	}

	return &InlineAsmNode{Assembly: assembly, Outputs: outputs, Inputs: inputs, Clobbers: clobbers}
}

// parseInlineAsmOperand parses a single `"constraint"(expr)` pair.
// "m" and "=m" are rewritten to "*m"/"=*m" so every memory operand is
// passed by address (spec §4.6), and the constraint is stashed on the
// parser so callers that don't need the return value (the input-list
// loop) can still recover it.
func (p *Parser) parseInlineAsmOperand() (string, Expr) {
	if p.peek().Type != TokenStringLiteral {
		p.errorf(ErrLexical, p.peek(), "expected string literal constraint")
		return "", nil
	}
	if strings.Contains(p.peek().Value, ",") {
		p.errorf(ErrLexical, p.peek(), "invalid constraint")
	}
	raw := p.advance().Value

	var constraint string
	switch raw {
	case "m":
		constraint = "*m"
	case "=m":
		constraint = "=*m"
	default:
		constraint = raw
	}
	p.lastAsmConstraint = constraint

	if !p.expectPunct("(") {
		return constraint, nil
	}
	etok := p.peek()
	exp := p.parseExpression(precedence{})
	if exp == nil {
		return constraint, nil
	}
	if strings.HasPrefix(constraint, "*") && !exp.IsLvalue() {
		p.errorf(ErrTyping, etok, "operand must be lvalue for indirect constraint")
	}
	if !p.expectPunct(")") {
		return constraint, nil
	}
	return constraint, exp
}
