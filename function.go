package c3

// C3Function is a function symbol: its global name, signature, the
// token of its (first) declaration, and — once a body has been seen —
// the token of its definition. Functions may be declared more than
// once provided every declaration's signature matches; at most one of
// those declarations may carry a body (spec §3, §4.4).
type C3Function struct {
	Name           string
	GlobalName     string
	Signature      FunctionSignature
	DeclToken      Token
	definitionTok  *Token
	ArgNames       []string
}

func NewC3Function(name, globalName string, sig FunctionSignature, declTok Token) *C3Function {
	return &C3Function{Name: name, GlobalName: globalName, Signature: sig, DeclToken: declTok}
}

// Defined reports whether a body has been parsed for this function.
func (f *C3Function) Defined() bool { return f.definitionTok != nil }

// SetDefinition marks the function as defined, recording the token of
// the definition and the formal argument names used in its body.
func (f *C3Function) SetDefinition(tok Token, argNames []string) {
	t := tok
	f.definitionTok = &t
	f.ArgNames = argNames
}

func (f *C3Function) DefinitionToken() (Token, bool) {
	if f.definitionTok == nil {
		return Token{}, false
	}
	return *f.definitionTok, true
}
