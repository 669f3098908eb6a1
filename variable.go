package c3

// C3Variable is a variable symbol: its type, local name, fully
// qualified global name, and declaration token (spec §3).
type C3Variable struct {
	Type       *Type
	Name       string
	GlobalName string
	DeclToken  Token
}

func NewC3Variable(t *Type, name, globalName string, declTok Token) *C3Variable {
	return &C3Variable{Type: t, Name: name, GlobalName: globalName, DeclToken: declTok}
}
