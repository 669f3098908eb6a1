package c3

import "fmt"

// Parser is the scope-aware recursive-descent parser described in
// spec §4.4. It simultaneously builds the AST and resolves names,
// types, functions, and struct layouts in a single pass.
type Parser struct {
	stream *TokenStream
	scopes *ScopeStack
	types  *TypeRegistry
	config *Config

	errors []ParseError

	preproc Preprocessor
	visited map[string]bool

	// inNamespace tracks whether we're lexically within a namespace
	// block, so `import` (global-scope-only, spec §4.4 item 1) can be
	// rejected inside it.
	inNamespace int

	// lastAsmConstraint carries the constraint parsed by the most
	// recent parseInlineAsmOperand call back to callers (the input-list
	// loop) that don't use its direct return value.
	lastAsmConstraint string
}

// NewParser builds a parser over tokens with the five builtin
// primitive types bound in the global scope, matching the original
// implementation's constructor exactly (spec §6 "Language surface":
// void, bool, char, int64, double — int32 is not a surface type name).
func NewParser(tokens []Token, cfg *Config) *Parser {
	if cfg == nil {
		cfg = NewConfig()
	}
	p := &Parser{
		stream:  NewTokenStream(tokens),
		scopes:  NewScopeStack(),
		types:   NewTypeRegistry(),
		config:  cfg,
		preproc: NewFileTokenizer(),
		visited: map[string]bool{},
	}
	g := p.scopes.Global()
	g.DeclareType("void", p.types.Void())
	g.DeclareType("bool", p.types.Bool())
	g.DeclareType("char", p.types.Int8())
	g.DeclareType("int64", p.types.Int64())
	g.DeclareType("double", p.types.Double())
	return p
}

// SetPreprocessor overrides the default FileTokenizer used to resolve
// `import` statements.
func (p *Parser) SetPreprocessor(pp Preprocessor) { p.preproc = pp }

func (p *Parser) Errors() []ParseError { return p.errors }

// Parse runs generate_ast over the parser's own token stream and fails
// overall if any error was reported, per spec §4.4.
func (p *Parser) Parse() (*SequenceNode, error) {
	root := p.parseBlockItems(func() bool { return p.stream.AtEnd() })
	if !p.stream.AtEnd() {
		p.errorf(ErrLexical, p.peek(), "expected end of file")
	}
	if len(p.errors) > 0 {
		return nil, fmt.Errorf("%d parse error(s), first: %s", len(p.errors), p.errors[0].Error())
	}
	return root, nil
}

// GenerateAST parses tokens recursively into the *current* (global)
// scope, used by `import` to splice an imported module's top-level
// declarations into the importer's namespace (spec §6 "Preprocessor").
func (p *Parser) GenerateAST(tokens []Token) (*SequenceNode, error) {
	savedStream := p.stream
	p.stream = NewTokenStream(tokens)
	defer func() { p.stream = savedStream }()

	root := p.parseBlockItems(func() bool { return p.stream.AtEnd() })
	if !p.stream.AtEnd() {
		p.errorf(ErrLexical, p.peek(), "expected end of file")
		return nil, fmt.Errorf("import: trailing tokens after module body")
	}
	return root, nil
}

// ---- token helpers ----

func (p *Parser) peek() Token      { return p.stream.Peek() }
func (p *Parser) advance() Token   { return p.stream.Advance() }

func (p *Parser) peekPunct(v string) bool {
	t := p.peek()
	return t.Type == TokenPunctuator && t.Value == v
}

func (p *Parser) peekKeyword(v string) bool {
	t := p.peek()
	return t.Type == TokenIdentifier && t.Value == v && isKeyword(v)
}

func (p *Parser) peekIdentifier() bool { return p.peek().Type == TokenIdentifier }

func (p *Parser) peekEnd() bool { return p.stream.AtEnd() }

// expectPunct consumes v if present, otherwise records a ParseError
// and returns false. Used for required delimiters.
func (p *Parser) expectPunct(v string) bool {
	if p.peekPunct(v) {
		p.advance()
		return true
	}
	p.errorf(ErrLexical, p.peek(), "expected `%s` but got %s", v, p.peek())
	return false
}

// expectKeyword consumes the keyword v if present, otherwise records
// an error.
func (p *Parser) expectKeyword(v string) bool {
	if p.peekKeyword(v) {
		p.advance()
		return true
	}
	p.errorf(ErrLexical, p.peek(), "expected `%s` but got %s", v, p.peek())
	return false
}

// expectIdentifier consumes and returns an identifier token, or
// records an error and returns the zero token.
func (p *Parser) expectIdentifier() (Token, bool) {
	if p.peekIdentifier() && !isKeyword(p.peek().Value) {
		return p.advance(), true
	}
	p.errorf(ErrLexical, p.peek(), "expected identifier but got %s", p.peek())
	return Token{}, false
}

func (p *Parser) errorf(kind ErrorKind, tok Token, format string, args ...any) {
	p.errors = append(p.errors, ParseError{Kind: kind, Message: fmt.Sprintf(format, args...), Token: tok})
}

// recover implements spec §4.4's local recovery discipline: skip
// forward to the next statement boundary (a `;`, consumed, or a `}`,
// left for the caller) so one error doesn't cascade into unrelated
// follow-on errors.
func (p *Parser) recover() {
	for !p.peekEnd() {
		if p.peekPunct(";") {
			p.advance()
			return
		}
		if p.peekPunct("}") {
			return
		}
		p.advance()
	}
}

// ---- semantic predicates (spec §4.4) ----

func (p *Parser) isNewName(name string) bool              { return p.scopes.IsNewName(name) }
func (p *Parser) isNamespaceName(name string) bool         { return p.scopes.IsNamespaceName(name) }
func (p *Parser) isNewOrNamespaceName(name string) bool    { return p.scopes.IsNewOrNamespaceName(name) }
func (p *Parser) isUndefinedFunctionName(name string) bool { return p.scopes.IsUndefinedFunctionName(name) }

// ---- scope helpers ----

// pushScope opens an anonymous nested scope and returns a function
// that closes it; callers use `defer p.pushScope()()` to guarantee the
// pop happens on every exit path, per spec §5.
func (p *Parser) pushScope() func() {
	p.scopes.Push()
	return p.scopes.Pop
}

func (p *Parser) pushFunctionScope(f *C3Function) func() {
	p.scopes.PushForFunction(f)
	return p.scopes.Pop
}

func (p *Parser) pushNamedScope(name string) func() {
	p.scopes.PushNamed(name)
	return p.scopes.Pop
}

// ---- block parsing ----

// parseBlockItems repeatedly parses statements until stop() reports
// true, accumulating them into a Sequence. It never returns nil — an
// empty block is a Sequence with no children.
func (p *Parser) parseBlockItems(stop func() bool) *SequenceNode {
	seq := &SequenceNode{}
	for !stop() && !p.peekEnd() {
		before := p.stream.Mark()
		stmt := p.parseStatement()
		if stmt != nil {
			seq.Children = append(seq.Children, stmt)
		}
		if p.stream.Mark() == before {
			// parseStatement made no progress (e.g. an unparseable
			// token at statement position); force progress so we
			// don't spin forever accumulating the same error.
			p.errorf(ErrLexical, p.peek(), "unexpected token %s", p.peek())
			p.advance()
		}
	}
	return seq
}

// parseBraceBlock consumes a `{ ... }` compound block and parses its
// contents. It is deliberately scope- and namespace-agnostic: every
// call site decides what, if anything, to push around it. A bare `{ }`
// statement pushes its own anonymous scope; a `namespace { }` block
// enters a namespace on the current scope with no new scope; a
// function definition's body runs directly in the function's own
// scope with no further nesting (spec §4.4 item 3).
func (p *Parser) parseBraceBlock() *SequenceNode {
	if !p.expectPunct("{") {
		return &SequenceNode{}
	}
	body := p.parseBlockItems(func() bool { return p.peekPunct("}") })
	p.expectPunct("}")
	return body
}
