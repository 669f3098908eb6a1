package c3

import "strings"

// TypeKind is the tag of the Type sum described in spec §3.
type TypeKind int

const (
	KindPointer TypeKind = iota
	KindFunction
	KindStruct
	KindVoid
	KindBool
	KindInt8
	KindInt32
	KindInt64
	KindDouble
)

func (k TypeKind) String() string {
	switch k {
	case KindPointer:
		return "pointer"
	case KindFunction:
		return "function"
	case KindStruct:
		return "struct"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindDouble:
		return "double"
	default:
		return "unknown"
	}
}

// TypeModifier mirrors the original source's bitmask. Neither flag is
// consulted by the parser or the lowering (IsConstant reads Constant but
// has no callers); Unsigned is carried for interface parity with the
// original but, per spec §9, never changes is_signed()'s answer.
type TypeModifier int

const (
	ModifierNone     TypeModifier = 0
	ModifierUnsigned TypeModifier = 1 << 0
	ModifierConstant TypeModifier = 1 << 1
)

// Type is a nominal-for-structs, structural-for-everything-else type
// value. Pointer and struct types are heap-allocated once and shared
// by reference so that spec §8's identity properties
// (pointer_to(T) == pointer_to(T), struct identity by global name)
// hold by Go pointer equality for pointers and by global-name
// comparison for structs.
type Type struct {
	Kind       TypeKind
	Name       string
	GlobalName string

	// Pointer
	Pointee *Type

	// Function
	Signature FunctionSignature

	// Struct
	structDef *StructDefinition
	defined   bool

	// memoized T* for this type, keyed on this type as pointee
	pointerTo *Type

	modifiers TypeModifier
}

// Size returns the type's size in bytes, per spec §3's invariants.
// Int32 reporting 8 instead of 4 is preserved verbatim from the
// original implementation (see SPEC_FULL.md §9) rather than silently
// corrected.
func (t *Type) Size() int {
	switch t.Kind {
	case KindPointer, KindFunction:
		return 8
	case KindStruct:
		if !t.defined {
			return 0
		}
		return t.structDef.Size()
	case KindVoid:
		return 0
	case KindBool, KindInt8:
		return 1
	case KindInt32, KindInt64:
		// Matches the original C3Type::size(): Int32 reports 8, not 4.
		// Confirmed against original_source, kept intentionally.
		return 8
	case KindDouble:
		return 8
	default:
		panicInvariant("Type.Size: unhandled kind %s", t.Kind)
		return 0
	}
}

func (t *Type) IsInteger() bool {
	switch t.Kind {
	case KindInt8, KindInt32, KindInt64:
		return true
	default:
		return false
	}
}

func (t *Type) IsFloatingPoint() bool { return t.Kind == KindDouble }

// IsSigned is hardcoded true, per spec §9: the unsigned modifier
// exists but is never consulted.
func (t *Type) IsSigned() bool { return true }

func (t *Type) IsConstant() bool { return t.modifiers&ModifierConstant != 0 }

// IsDefined reports whether a struct type has a completed body.
// Non-struct types are always considered defined.
func (t *Type) IsDefined() bool {
	return t.Kind != KindStruct || t.defined
}

func (t *Type) StructDefinition() *StructDefinition {
	if t.structDef == nil {
		return &StructDefinition{}
	}
	return t.structDef
}

// Equal implements spec §3's equality rule: same kind; pointers equal
// iff pointees are equal; structs equal iff global names match;
// everything else equal by kind alone.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindPointer:
		return t.Pointee.Equal(o.Pointee)
	case KindStruct:
		return t.GlobalName == o.GlobalName
	default:
		return true
	}
}

func (t *Type) String() string { return t.Name }

// TypeRegistry interns primitive, pointer, and function types, and
// owns the lifecycle of struct types from opaque declaration through
// completion (spec §4.1).
type TypeRegistry struct {
	voidT, boolT, int8T, int32T, int64T, doubleT *Type
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		voidT:   &Type{Kind: KindVoid, Name: "void", GlobalName: "void"},
		boolT:   &Type{Kind: KindBool, Name: "bool", GlobalName: "bool"},
		int8T:   &Type{Kind: KindInt8, Name: "char", GlobalName: "char"},
		int32T:  &Type{Kind: KindInt32, Name: "int32", GlobalName: "int32"},
		int64T:  &Type{Kind: KindInt64, Name: "int64", GlobalName: "int64"},
		doubleT: &Type{Kind: KindDouble, Name: "double", GlobalName: "double"},
	}
}

func (r *TypeRegistry) Void() *Type   { return r.voidT }
func (r *TypeRegistry) Bool() *Type   { return r.boolT }
func (r *TypeRegistry) Int8() *Type   { return r.int8T }
func (r *TypeRegistry) Int32() *Type  { return r.int32T }
func (r *TypeRegistry) Int64() *Type  { return r.int64T }
func (r *TypeRegistry) Double() *Type { return r.doubleT }

// PointerTo returns the unique T* for t, memoized on t so that
// PointerTo(T) == PointerTo(T) by reference (spec §4.1, §8).
func (r *TypeRegistry) PointerTo(t *Type) *Type {
	if t.pointerTo == nil {
		t.pointerTo = &Type{
			Kind:       KindPointer,
			Name:       t.Name + "*",
			GlobalName: t.GlobalName + "*",
			Pointee:    t,
		}
	}
	return t.pointerTo
}

// Function constructs a function-typed entry. Function types are not
// deduplicated; callers compare by FunctionSignature.Equal instead
// (spec §4.1).
func (r *TypeRegistry) Function(sig FunctionSignature) *Type {
	name := sig.String()
	return &Type{Kind: KindFunction, Name: name, GlobalName: name, Signature: sig}
}

// StructDecl creates an opaque (declared, not yet defined) struct
// type. Forward references against a self-referential struct hold
// this same pointer, so later Define calls are observed retroactively
// by every prior reference (spec §4.1, §5).
func (r *TypeRegistry) StructDecl(name, globalName string) *Type {
	return &Type{Kind: KindStruct, Name: name, GlobalName: globalName}
}

// StructDef creates and immediately defines a struct type.
func (r *TypeRegistry) StructDef(name, globalName string, def StructDefinition) *Type {
	t := r.StructDecl(name, globalName)
	r.Define(t, def)
	return t
}

// Define transitions an opaque struct to defined. Defining an already
// defined struct is a hard error: the original source's lifecycle
// allows exactly one completion per struct type (spec §4.1).
func (r *TypeRegistry) Define(t *Type, def StructDefinition) {
	if t.Kind != KindStruct {
		panicInvariant("Define called on non-struct type %s", t.Kind)
	}
	if t.defined {
		panicInvariant("struct %s is already defined", t.GlobalName)
	}
	t.structDef = &def
	t.defined = true
}

// qualifiedKey concatenates a "::"-separated qualified name into the
// single string key used by both the type registry's global names and
// the scope stack's lookups.
func qualifiedKey(parts ...string) string {
	return strings.Join(parts, "::")
}
