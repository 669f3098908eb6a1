package c3

// tryParseFullName parses IDENT ("::" IDENT)* and returns the
// "::"-joined qualified name. It fails (returning ok=false) when the
// stream isn't positioned at an identifier, or when a "::" is not
// followed by one; it never partially consumes on failure.
func (p *Parser) tryParseFullName() (string, bool) {
	if !p.peekIdentifier() {
		return "", false
	}
	mark := p.stream.Mark()
	tok := p.advance()
	name := tok.Value
	for p.peekPunct("::") {
		p.advance()
		if !p.peekIdentifier() {
			p.stream.Reset(mark)
			return "", false
		}
		name = qualifiedKey(name, p.advance().Value)
	}
	return name, true
}

// tryParseVariable speculatively resolves a qualified name to a bound
// variable, restoring the stream on failure.
func (p *Parser) tryParseVariable() (*C3Variable, bool) {
	mark := p.stream.Mark()
	name, ok := p.tryParseFullName()
	if !ok {
		return nil, false
	}
	v, ok := p.scopes.LookupVariable(name)
	if !ok {
		p.stream.Reset(mark)
		return nil, false
	}
	return v, true
}

// tryParseFunction speculatively resolves a qualified name to a bound
// function, restoring the stream on failure.
func (p *Parser) tryParseFunction() (*C3Function, bool) {
	mark := p.stream.Mark()
	name, ok := p.tryParseFullName()
	if !ok {
		return nil, false
	}
	f, ok := p.scopes.LookupFunction(name)
	if !ok {
		p.stream.Reset(mark)
		return nil, false
	}
	return f, true
}

// tryParseType speculatively parses a type reference: a qualified name
// bound to a type in the current scope stack, followed by zero or
// more `*` pointer suffixes (spec §4.4). On failure the stream is left
// exactly where it started.
func (p *Parser) tryParseType() (*Type, bool) {
	mark := p.stream.Mark()
	name, ok := p.tryParseFullName()
	if !ok {
		return nil, false
	}
	t, ok := p.scopes.LookupType(name)
	if !ok {
		p.stream.Reset(mark)
		return nil, false
	}
	for p.peekPunct("*") {
		p.advance()
		t = p.types.PointerTo(t)
	}
	return t, true
}
