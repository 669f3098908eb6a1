package c3

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// irTypes bridges the front-end's Type sum to github.com/llir/llvm's
// IR type system (spec §4.8 "Type lowering"). Struct types go through
// the same opaque-then-defined lifecycle as the front-end's own
// TypeRegistry: structFor registers a named, opaque struct on first
// reference so self-referential pointer members resolve, and fills in
// its body once the front-end's struct type is defined.
type irTypes struct {
	module  *ir.Module
	structs map[string]*types.StructType
}

func newIRTypes(m *ir.Module) *irTypes {
	return &irTypes{module: m, structs: map[string]*types.StructType{}}
}

// Lower converts a front-end Type into its llir/llvm equivalent.
func (it *irTypes) Lower(t *Type) types.Type {
	switch t.Kind {
	case KindVoid:
		return types.Void
	case KindBool:
		return types.I1
	case KindInt8:
		return types.I8
	case KindInt32:
		return types.I32
	case KindInt64:
		return types.I64
	case KindDouble:
		return types.Double
	case KindPointer:
		return types.NewPointer(it.Lower(t.Pointee))
	case KindFunction:
		return types.NewPointer(it.lowerFuncType(t.Signature))
	case KindStruct:
		return it.structFor(t)
	default:
		panicInvariant("irTypes.Lower: unhandled kind %s", t.Kind)
		return nil
	}
}

func (it *irTypes) lowerFuncType(sig FunctionSignature) *types.FuncType {
	params := make([]types.Type, len(sig.ArgTypes))
	for i, a := range sig.ArgTypes {
		params[i] = it.Lower(a)
	}
	return types.NewFunc(it.Lower(sig.ReturnType), params...)
}

// structFor returns the llir struct type for t, declaring it opaque on
// first reference and completing it once (spec §4.1's forward-decl
// lifecycle, mirrored one level down in the IR). Opaque is cleared
// before the field list is built, not after: a self-referential member
// (e.g. `Node* next` inside Node) lowers its own pointer type by
// calling back into structFor for the same t while the outer call is
// still assembling fields, and only needs st's identity, not its
// completed body, to build that pointer — clearing Opaque first turns
// that reentrant call into a plain lookup instead of infinite
// recursion.
func (it *irTypes) structFor(t *Type) *types.StructType {
	st, ok := it.structs[t.GlobalName]
	if !ok {
		st = types.NewStruct()
		st.TypeName = t.GlobalName
		st.Opaque = true
		it.structs[t.GlobalName] = st
		it.module.NewTypeDef(t.GlobalName, st)
	}
	if t.IsDefined() && st.Opaque {
		st.Opaque = false
		def := t.StructDefinition()
		fields := make([]types.Type, len(def.Fields))
		for i, f := range def.Fields {
			fields[i] = it.Lower(f.Type)
		}
		st.Fields = fields
		// Packed: no alignment padding, matching StructDefinition.Size()'s
		// own packed sum and the original's setBody(elements, /*isPacked=*/true).
		st.Packed = true
	}
	return st
}
