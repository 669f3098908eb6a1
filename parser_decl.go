package c3

import "fmt"

// parseVariableDec parses a variable declaration already past its
// type (`TYPE name [= expr]`), per spec §4.4 "Variable declarations".
// The new-name predicate must hold before any token is consumed; on
// failure the stream is left untouched so the caller's dispatch can
// still report a sensible error location.
func (p *Parser) parseVariableDec(t *Type) Node {
	tok := p.peek()
	if tok.Type != TokenIdentifier || !p.isNewName(tok.Value) {
		p.errorf(ErrNaming, tok, "expected new variable name")
		return nil
	}
	p.advance()

	scope := p.scopes.Top()
	v := NewC3Variable(t, tok.Value, scope.GlobalPrefix()+tok.Value, tok)
	scope.DeclareVariable(tok.Value, v)

	if p.peekPunct("=") {
		p.advance()
		init := p.parseExpression(precedence{})
		if init == nil {
			return nil
		}
		return &VariableDecNode{Var: v, Init: init}
	}
	return &VariableDecNode{Var: v}
}

// parseFunctionProtoOrDef parses a function prototype, and, if a `{`
// follows, its definition body too (spec §4.4 "Function declarations
// and definitions"). justProto reports which of the two happened, so
// the statement dispatcher knows whether to require a trailing
// semicolon.
func (p *Parser) parseFunctionProtoOrDef(t *Type) (node Node, justProto bool) {
	protoTok := p.peek()
	argsAreNamed := false
	proto := p.parseFunctionProto(t, &argsAreNamed)
	if proto == nil {
		return nil, true
	}

	if !p.peekPunct("{") {
		return proto, true
	}

	if !argsAreNamed {
		p.errorf(ErrContextual, p.peek(), "function definition has unnamed arguments")
		defer p.pushFunctionScope(proto.Func)()
		p.parseBraceBlock()
		return nil, false
	}

	proto.Func.SetDefinition(protoTok, proto.ArgNames)

	pop := p.pushFunctionScope(proto.Func)
	defer pop()
	scope := p.scopes.Top()
	for i, name := range proto.ArgNames {
		argType := proto.Func.Signature.ArgTypes[i]
		scope.DeclareVariable(name, NewC3Variable(argType, name, scope.GlobalPrefix()+name, protoTok))
	}

	body := p.parseBraceBlock()

	return &FunctionDefNode{Proto: proto, Body: body, ArgPrefix: scope.GlobalPrefix()}, false
}

// parseFunctionProto parses `TYPE name(TYPE [name], ...)`. A
// redeclaration of an existing function in the current scope is
// allowed iff the signatures match exactly, per spec §4.4 item 5.
func (p *Parser) parseFunctionProto(t *Type, argsAreNamed *bool) *FunctionProtoNode {
	if !p.peekIdentifier() || !p.isUndefinedFunctionName(p.peek().Value) {
		p.errorf(ErrNaming, p.peek(), "expected undefined function name")
		return nil
	}
	tok := p.advance()

	if !p.expectPunct("(") {
		return nil
	}

	var argTypes []*Type
	var names []string

	for !p.peekPunct(")") {
		argType, ok := p.tryParseType()
		if !ok {
			p.errorf(ErrTyping, p.peek(), "expected argument type")
			return nil
		}

		named := false
		if p.peekIdentifier() && p.isNewName(p.peek().Value) {
			name := p.peek().Value
			for _, n := range names {
				if n == name {
					p.errorf(ErrNaming, p.peek(), "duplicate argument name")
					return nil
				}
			}
			named = true
			names = append(names, name)
			p.advance()
		}

		argTypes = append(argTypes, argType)

		if p.peekPunct(",") {
			p.advance()
		} else if !p.peekPunct(")") {
			if named {
				p.errorf(ErrLexical, p.peek(), "expected comma or end of argument list")
			} else {
				p.errorf(ErrLexical, p.peek(), "expected comma, name, or end of argument list")
			}
			return nil
		}
	}
	p.advance() // )

	if argsAreNamed != nil {
		*argsAreNamed = len(argTypes) == len(names)
	}

	scope := p.scopes.Top()
	sig := FunctionSignature{ReturnType: t, ArgTypes: argTypes}
	fn := NewC3Function(tok.Value, scope.GlobalPrefix()+tok.Value, sig, tok)

	if existing, ok := scope.lookupFunction(scope.LocalPrefix() + tok.Value); ok {
		if !fn.Signature.Equal(existing.Signature) {
			p.errorf(ErrTyping, tok, "function has different signature than previous declaration")
			return nil
		}
		return &FunctionProtoNode{Func: existing, ArgNames: names}
	}

	scope.DeclareFunction(tok.Value, fn)
	return &FunctionProtoNode{Func: fn, ArgNames: names}
}

// parseStructDecOrDef parses `struct name { (TYPE name;)* }`. The struct
// is registered as an opaque type in the enclosing scope before its
// members are parsed, so a member can point back at it (`Node* next`);
// the members themselves are parsed inside a throwaway scope named
// after the struct, so each member name is checked against that fresh
// scope rather than the enclosing one (spec §4.4 item 6, §5).
func (p *Parser) parseStructDecOrDef() Node {
	if !p.expectKeyword("struct") {
		return nil
	}

	if !p.peekIdentifier() || !p.isNewName(p.peek().Value) {
		p.errorf(ErrNaming, p.peek(), "expected new type name")
		return nil
	}
	nameTok := p.advance()

	if !p.expectPunct("{") {
		return nil
	}

	decl := p.types.StructDecl(nameTok.Value, p.scopes.Top().GlobalPrefix()+nameTok.Value)
	p.scopes.Top().DeclareType(nameTok.Value, decl)

	var fields []StructField
	pop := p.pushNamedScope(nameTok.Value)
	for !p.peekPunct("}") && !p.peekEnd() {
		fieldType, ok := p.tryParseType()
		if !ok {
			p.errorf(ErrTyping, p.peek(), "expected type")
			break
		}
		if !p.peekIdentifier() || !p.isNewName(p.peek().Value) {
			p.errorf(ErrNaming, p.peek(), "expected new member name")
			break
		}
		fieldTok := p.advance()
		fields = append(fields, StructField{Name: fieldTok.Value, Type: fieldType})
		if !p.peekPunct(";") {
			p.errorf(ErrLexical, p.peek(), "expected semicolon")
		} else {
			p.advance()
		}
	}
	pop()

	p.expectPunct("}")

	p.types.Define(decl, StructDefinition{Fields: fields})
	return &NopNode{}
}

// parseImport parses `import name;`, only legal at global scope
// outside any namespace (spec §4.4 item 1, §6 "Preprocessor"). The
// imported module's tokens are spliced into the current scope via
// GenerateAST, guarded against re-entrant imports by name.
func (p *Parser) parseImport() Node {
	if !p.expectKeyword("import") {
		return nil
	}
	tok := p.peek()
	if tok.Type != TokenIdentifier || !(p.isNewName(tok.Value) || p.isNamespaceName(tok.Value)) {
		p.errorf(ErrNaming, tok, "expected module name")
		return nil
	}
	if len(p.scopes.scopes) > 1 {
		p.errorf(ErrContextual, tok, "imports can only be made in the global scope")
		return nil
	}
	if p.inNamespace > 0 {
		p.errorf(ErrContextual, tok, "imports can only be made in the top level namespace")
		return nil
	}

	if p.visited[tok.Value] {
		// already imported; consume the name and contribute nothing
		// further (spec §9's import re-entrancy decision).
		p.advance()
		return &NopNode{}
	}
	p.visited[tok.Value] = true

	if !p.preproc.ProcessFile(fmt.Sprintf("modules/%s/%s.c3", tok.Value, tok.Value)) {
		p.errorf(ErrContextual, tok, "unable to import module")
		return nil
	}
	p.advance() // module name

	node, err := p.GenerateAST(p.preproc.Tokens())
	if err != nil {
		return nil
	}
	return node
}

// parseNamespace parses `namespace name { ... }`. Unlike a bare block,
// this does not push a new scope: it enters a named namespace on the
// current scope, so declarations inside get a "::"-qualified local
// prefix without losing access to the enclosing scope's bindings
// (spec §4.4 item 2).
func (p *Parser) parseNamespace() Node {
	if !p.expectKeyword("namespace") {
		return nil
	}
	tok := p.peek()
	if tok.Type != TokenIdentifier || !(p.isNewName(tok.Value) || p.isNamespaceName(tok.Value)) {
		p.errorf(ErrNaming, tok, "expected namespace name")
		return nil
	}
	p.advance()
	if !p.peekPunct("{") {
		p.errorf(ErrLexical, p.peek(), "expected opening brace")
		return nil
	}

	scope := p.scopes.Top()
	scope.EnterNamespace(tok.Value)
	p.inNamespace++
	body := p.parseBraceBlock()
	p.inNamespace--
	scope.ExitNamespace()

	return body
}
