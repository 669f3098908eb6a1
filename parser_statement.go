package c3

// parseStatement dispatches on the lookahead token to one of the
// statement forms in spec §4.4's grammar. Most forms want a trailing
// semicolon; block-shaped forms (`{ }`, namespace, if/while, struct)
// don't, since they end in their own closing brace.
func (p *Parser) parseStatement() Node {
	var node Node
	expectSemicolon := true

	switch {
	case p.peekKeyword("import"):
		node = p.parseImport()

	case p.peekKeyword("namespace"):
		node = p.parseNamespace()
		expectSemicolon = false

	case p.peekPunct("{"):
		defer p.pushScope()()
		node = p.parseBraceBlock()
		expectSemicolon = false

	case p.isTypeLookahead():
		t, _ := p.tryParseType()
		if p.identifierFollowedByParen() {
			def, justProto := p.parseFunctionProtoOrDef(t)
			node = def
			expectSemicolon = justProto
		} else {
			node = p.parseVariableDec(t)
		}

	case p.peekKeyword("if"):
		node = p.parseIf()
		expectSemicolon = false

	case p.peekKeyword("while"):
		node = p.parseWhile()
		expectSemicolon = false

	case p.peekKeyword("asm"):
		node = p.parseInlineAsm()

	case p.peekKeyword("return"):
		node = p.parseReturn()

	case p.peekKeyword("struct"):
		node = p.parseStructDecOrDef()
		expectSemicolon = false

	default:
		node = p.parseExpression(precedence{})
	}

	if node != nil && expectSemicolon {
		if p.peekPunct(";") {
			p.advance()
		} else {
			p.errorf(ErrLexical, p.peek(), "expected semicolon")
		}
	}

	return node
}

// isTypeLookahead speculatively checks whether the token under the
// cursor begins a type reference, without committing to consuming it
// (spec §4.4's "proto or declaration" dispatch needs to try-parse the
// type before it can tell a function from a variable).
func (p *Parser) isTypeLookahead() bool {
	mark := p.stream.Mark()
	_, ok := p.tryParseType()
	p.stream.Reset(mark)
	return ok
}

// identifierFollowedByParen is the one-token lookahead that tells a
// function prototype/definition apart from a variable declaration,
// once the leading type has already been consumed: `TYPE name(` is a
// function, anything else is a variable (spec §4.4 item 4).
func (p *Parser) identifierFollowedByParen() bool {
	if !p.peekIdentifier() {
		return false
	}
	mark := p.stream.Mark()
	p.advance()
	ok := p.peekPunct("(")
	p.stream.Reset(mark)
	return ok
}

// parseIf parses `if (cond) stmt [else stmt]`. Each branch runs in its
// own anonymous scope; an absent else branch becomes an empty
// Sequence so the lowerer never has to nil-check it.
func (p *Parser) parseIf() Node {
	if !p.expectKeyword("if") {
		return nil
	}
	if !p.expectPunct("(") {
		return nil
	}
	cond := p.parseExpression(precedence{})
	if cond == nil {
		return nil
	}
	if !p.expectPunct(")") {
		return nil
	}

	truePath := func() Node {
		defer p.pushScope()()
		return p.parseStatement()
	}()
	if truePath == nil {
		return nil
	}

	var falsePath Node
	if p.peekKeyword("else") {
		p.advance()
		falsePath = func() Node {
			defer p.pushScope()()
			return p.parseStatement()
		}()
		if falsePath == nil {
			return nil
		}
	} else {
		falsePath = &SequenceNode{}
	}

	return &ConditionNode{Cond: cond, TrueBranch: truePath, FalseBranch: falsePath}
}

// parseWhile parses `while (cond) stmt`, with the body in its own
// anonymous scope.
func (p *Parser) parseWhile() Node {
	if !p.expectKeyword("while") {
		return nil
	}
	if !p.expectPunct("(") {
		return nil
	}
	cond := p.parseExpression(precedence{})
	if cond == nil {
		return nil
	}
	if !p.expectPunct(")") {
		return nil
	}

	body := func() Node {
		defer p.pushScope()()
		return p.parseStatement()
	}()
	if body == nil {
		return nil
	}

	return &WhileLoopNode{Cond: cond, Body: body}
}

// parseReturn parses `return [expr];`. A bare `return;` is only valid
// in a void function; spec §9 decided to implement it (the original
// left it a TODO), since otherwise no void function could ever
// return.
func (p *Parser) parseReturn() Node {
	if !p.expectKeyword("return") {
		return nil
	}

	expected := p.scopes.Top().ReturnType
	if expected == nil {
		p.errorf(ErrContextual, p.peek(), "unexpected return statement")
	}

	if expected != nil && expected.Kind == KindVoid && p.peekPunct(";") {
		return &ReturnNode{}
	}

	tok := p.peek()
	exp := p.parseExpression(precedence{})
	if exp == nil {
		return nil
	}

	if expected != nil && !exp.ExprType().Equal(expected) {
		p.errorf(ErrTyping, tok, "invalid return type (expected '%s' but got '%s')", expected, exp.ExprType())
	}

	return &ReturnNode{Value: exp}
}
