package c3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRegistry_PointerTo_Memoized(t *testing.T) {
	r := NewTypeRegistry()
	p1 := r.PointerTo(r.Int64())
	p2 := r.PointerTo(r.Int64())
	assert.Same(t, p1, p2, "PointerTo(T) must return the identical *Type on repeat calls")
	assert.True(t, p1.Equal(p2))
}

func TestTypeRegistry_PointerTo_DistinctPointees(t *testing.T) {
	r := NewTypeRegistry()
	pInt := r.PointerTo(r.Int64())
	pDouble := r.PointerTo(r.Double())
	assert.False(t, pInt.Equal(pDouble))
}

func TestType_Size_Int32ReportsEightNotFour(t *testing.T) {
	r := NewTypeRegistry()
	// Preserved verbatim from the original implementation (SPEC_FULL.md
	// §9): Int32 and Int64 both report 8 bytes from Size(), even though
	// the LLVM lowering genuinely uses a 32-bit width for Int32.
	assert.Equal(t, 8, r.Int32().Size())
	assert.Equal(t, 8, r.Int64().Size())
	assert.Equal(t, 32, llvmBitWidth(KindInt32))
	assert.Equal(t, 64, llvmBitWidth(KindInt64))
}

func TestType_IsSigned_AlwaysTrue(t *testing.T) {
	r := NewTypeRegistry()
	assert.True(t, r.Int8().IsSigned())
	assert.True(t, r.Int64().IsSigned())
	assert.True(t, r.Double().IsSigned())
}

func TestType_Equal_StructByGlobalName(t *testing.T) {
	r := NewTypeRegistry()
	a := r.StructDecl("Point", "Point")
	b := r.StructDecl("Point", "Point")
	assert.NotSame(t, a, b)
	assert.True(t, a.Equal(b), "two distinct struct Type values with the same global name must compare equal")

	c := r.StructDecl("Point", "ns::Point")
	assert.False(t, a.Equal(c))
}

func TestTypeRegistry_StructSelfReference(t *testing.T) {
	r := NewTypeRegistry()
	node := r.StructDecl("Node", "Node")
	assert.False(t, node.IsDefined())

	selfPtr := r.PointerTo(node)
	def := StructDefinition{Fields: []StructField{
		{Name: "value", Type: r.Int64()},
		{Name: "next", Type: selfPtr},
	}}
	r.Define(node, def)

	require.True(t, node.IsDefined())
	assert.Equal(t, node, selfPtr.Pointee, "a pointer minted before Define must observe the completed struct")
	assert.Same(t, node, node.StructDefinition().Fields[1].Type.Pointee)
}

func TestTypeRegistry_Define_Twice_Panics(t *testing.T) {
	r := NewTypeRegistry()
	s := r.StructDecl("S", "S")
	r.Define(s, StructDefinition{})
	assert.Panics(t, func() {
		r.Define(s, StructDefinition{})
	})
}

func TestStructDefinition_FieldIndexAndSize(t *testing.T) {
	r := NewTypeRegistry()
	def := StructDefinition{Fields: []StructField{
		{Name: "a", Type: r.Int8()},
		{Name: "b", Type: r.Double()},
	}}
	assert.Equal(t, 0, def.FieldIndex("a"))
	assert.Equal(t, 1, def.FieldIndex("b"))
	// Packed, no alignment padding: 1 + 8 = 9.
	assert.Equal(t, 9, def.Size())
}
