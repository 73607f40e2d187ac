package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTagStringAndPredicates(t *testing.T) {
	assert.Equal(t, "i32", BuiltinI32.String())
	assert.Equal(t, "u8", BuiltinU8.String())
	assert.Equal(t, "<unknown>", BuiltinUnknown.String())
	assert.Equal(t, "<user-defined>", builtinUserDefined.String())

	assert.True(t, BuiltinI32.IsNumeric())
	assert.True(t, BuiltinU32.IsNumeric())
	assert.False(t, BuiltinBool.IsNumeric())
	assert.False(t, BuiltinVoid.IsNumeric())

	assert.True(t, BuiltinI32.IsSigned())
	assert.False(t, BuiltinU32.IsSigned())
}

func TestBuiltinTagBitWidth(t *testing.T) {
	assert.Equal(t, 8, BuiltinI8.bitWidth())
	assert.Equal(t, 16, BuiltinU16.bitWidth())
	assert.Equal(t, 32, BuiltinI32.bitWidth())
	assert.Equal(t, 64, BuiltinU64.bitWidth())
	assert.Equal(t, 64, BuiltinUsz.bitWidth())
	assert.Equal(t, 0, BuiltinBool.bitWidth())
}

func TestNewTypeTableSeedsScalars(t *testing.T) {
	tt := NewTypeTable()
	for tag, name := range builtinNames {
		entry, ok := tt.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, tag, entry.Builtin)
	}
}

func TestTypeTableInsertAndLookup(t *testing.T) {
	tt := NewTypeTable()
	decl := &Node{Kind: KDecl, Name: "Color"}

	require.NoError(t, tt.Insert("Color", decl, true))

	entry, ok := tt.Lookup("Color")
	require.True(t, ok)
	assert.Same(t, decl, entry.Decl)
	assert.True(t, entry.Pub)
	assert.Equal(t, builtinUserDefined, entry.Builtin)
}

func TestTypeTableInsertRejectsDuplicate(t *testing.T) {
	tt := NewTypeTable()
	require.NoError(t, tt.Insert("Color", &Node{Kind: KDecl, Name: "Color"}, false))

	err := tt.Insert("Color", &Node{Kind: KDecl, Name: "Color"}, false)
	assert.Error(t, err)
}

func TestTypeTableInsertRejectsScalarNameCollision(t *testing.T) {
	tt := NewTypeTable()
	err := tt.Insert("i32", &Node{Kind: KDecl, Name: "i32"}, false)
	assert.Error(t, err)
}

func TestTypeTableNamedTypeNodeFillsBuiltin(t *testing.T) {
	tt := NewTypeTable()
	n := tt.NamedTypeNode("u8", Pos{Line: 1, Column: 1})
	assert.Equal(t, BuiltinU8, n.Builtin)
	require.NotNil(t, n.TypeEntry)
	assert.Equal(t, "u8", n.TypeEntry.Name)
}

func TestTypeTableNamedTypeNodeUnknownName(t *testing.T) {
	tt := NewTypeTable()
	n := tt.NamedTypeNode("Frobnicator", Pos{})
	assert.Nil(t, n.TypeEntry)
	assert.Equal(t, BuiltinUnknown, n.Builtin)
}
