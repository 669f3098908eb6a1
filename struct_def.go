package c3

// StructField is a single (name, type) pair within a struct body, in
// declaration order.
type StructField struct {
	Name string
	Type *Type
}

// StructDefinition is the ordered field list of a struct, per spec
// §3. Layout is packed: size is the sum of field sizes, with no
// alignment padding (see DESIGN.md for why packing, not natural
// alignment, was kept).
type StructDefinition struct {
	Fields []StructField
}

func (d *StructDefinition) Size() int {
	total := 0
	for _, f := range d.Fields {
		total += f.Type.Size()
	}
	return total
}

// FieldIndex returns the index of the named field, or -1 if absent.
// The parser stores this index (not the name) on StructMemberRef
// nodes, per spec §4.4 "Selection".
func (d *StructDefinition) FieldIndex(name string) int {
	for i, f := range d.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
