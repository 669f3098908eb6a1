package c3

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyModule_NoErrorsOnWellFormedFunction(t *testing.T) {
	m := ir.NewModule()
	fn := m.NewFunc("ok", types.Void)
	entry := fn.NewBlock("entry")
	entry.NewRet(nil)

	errs := VerifyModule(m)
	assert.Empty(t, errs)
}

func TestVerifyModule_FlagsUnterminatedBlock(t *testing.T) {
	m := ir.NewModule()
	fn := m.NewFunc("broken", types.Void)
	fn.NewBlock("entry") // never given a terminator

	errs := VerifyModule(m)
	require.Len(t, errs, 1)
	assert.Equal(t, "broken", errs[0].Function)
	assert.Contains(t, errs[0].Error(), "no terminator")
}

func TestLower_VerifyDisabled_StillLowersCleanly(t *testing.T) {
	cfg := NewConfig()
	cfg.SetBool("lowering.verify", false)
	l := NewLowerer(cfg)

	r := NewTypeRegistry()
	f := NewC3Function("stub", "stub", FunctionSignature{ReturnType: r.Void()}, Token{})
	f.SetDefinition(Token{}, nil)
	def := &FunctionDefNode{
		Proto:     &FunctionProtoNode{Func: f},
		Body:      &SequenceNode{},
		ArgPrefix: "stub.",
	}

	// With "lowering.verify" off, Lower skips VerifyModule entirely, but
	// a well-formed program still produces a well-formed module either
	// way — disabling the check changes what's double-checked, not what
	// gets built.
	err := l.Lower(&SequenceNode{Children: []Node{def}})
	require.NoError(t, err)
}
