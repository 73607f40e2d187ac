package tick

import "fmt"

// BuiltinTag is the resolved built-in type of a Named type node. unknown
// marks a reference the registration pass hasn't resolved yet.
type BuiltinTag int

const (
	BuiltinUnknown BuiltinTag = iota
	BuiltinI8
	BuiltinI16
	BuiltinI32
	BuiltinI64
	BuiltinU8
	BuiltinU16
	BuiltinU32
	BuiltinU64
	BuiltinUsz
	BuiltinIsz
	BuiltinBool
	BuiltinVoid
	// builtinUserDefined marks a Named type whose TypeEntry.Decl points at
	// a struct/union/enum declaration rather than one of the twelve
	// scalar built-ins above.
	builtinUserDefined
)

var builtinNames = map[BuiltinTag]string{
	BuiltinI8: "i8", BuiltinI16: "i16", BuiltinI32: "i32", BuiltinI64: "i64",
	BuiltinU8: "u8", BuiltinU16: "u16", BuiltinU32: "u32", BuiltinU64: "u64",
	BuiltinUsz: "usz", BuiltinIsz: "isz", BuiltinBool: "bool", BuiltinVoid: "void",
}

func (b BuiltinTag) String() string {
	if s, ok := builtinNames[b]; ok {
		return s
	}
	if b == builtinUserDefined {
		return "<user-defined>"
	}
	return "<unknown>"
}

func (b BuiltinTag) IsNumeric() bool {
	switch b {
	case BuiltinI8, BuiltinI16, BuiltinI32, BuiltinI64,
		BuiltinU8, BuiltinU16, BuiltinU32, BuiltinU64, BuiltinUsz, BuiltinIsz:
		return true
	}
	return false
}

func (b BuiltinTag) IsSigned() bool {
	switch b {
	case BuiltinI8, BuiltinI16, BuiltinI32, BuiltinI64, BuiltinIsz:
		return true
	}
	return false
}

// bitWidth returns the integer width in bits, used by the cast-strategy
// widening table (spec §4.8). usz/isz are treated as 64-bit-wide.
func (b BuiltinTag) bitWidth() int {
	switch b {
	case BuiltinI8, BuiltinU8:
		return 8
	case BuiltinI16, BuiltinU16:
		return 16
	case BuiltinI32, BuiltinU32:
		return 32
	case BuiltinI64, BuiltinU64, BuiltinUsz, BuiltinIsz:
		return 64
	}
	return 0
}

// TypeEntry is a row of the global type table (spec §3.5).
type TypeEntry struct {
	Name    string
	Builtin BuiltinTag
	Decl    *Node // declaration node for user-defined types; nil for scalars
	Pub     bool
}

// TypeTable is the global hash map keyed by type name, pre-populated with
// the scalar built-ins at analyzer init. It is backed by tickhash.Map, the
// bundled hash-map external collaborator described in spec §1 and §3.5.
type TypeTable struct {
	m *hashMap[*TypeEntry]
}

func NewTypeTable() *TypeTable {
	t := &TypeTable{m: newHashMap[*TypeEntry]()}
	for tag, name := range builtinNames {
		t.m.Put(name, &TypeEntry{Name: name, Builtin: tag})
	}
	return t
}

func (t *TypeTable) Lookup(name string) (*TypeEntry, bool) {
	return t.m.Get(name)
}

// Insert adds a user-defined type, rejecting duplicates (spec §3.5).
func (t *TypeTable) Insert(name string, decl *Node, pub bool) error {
	if _, exists := t.m.Get(name); exists {
		return fmt.Errorf("duplicate type `%s`", name)
	}
	t.m.Put(name, &TypeEntry{Name: name, Builtin: builtinUserDefined, Decl: decl, Pub: pub})
	return nil
}

// NamedTypeNode builds a fresh KNamedType node for name, with its
// TypeEntry and Builtin filled from the table when the name is known, so
// resolved-type comparisons for scalars can use the entry pointer.
func (t *TypeTable) NamedTypeNode(name string, pos Pos) *Node {
	entry, _ := t.Lookup(name)
	n := &Node{Kind: KNamedType, Pos: pos, Name: name}
	if entry != nil {
		n.TypeEntry = entry
		n.Builtin = entry.Builtin
	}
	return n
}
