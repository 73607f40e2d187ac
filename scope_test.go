package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeInsertAndLookupLocal(t *testing.T) {
	s := NewScope(nil)
	sym := &Symbol{Name: "x", Decl: &Node{Kind: KDecl, Name: "x"}}

	require.True(t, s.Insert(sym))

	got, ok := s.LookupLocal("x")
	require.True(t, ok)
	assert.Same(t, sym, got)
}

func TestScopeInsertRejectsDuplicate(t *testing.T) {
	s := NewScope(nil)
	require.True(t, s.Insert(&Symbol{Name: "x"}))
	assert.False(t, s.Insert(&Symbol{Name: "x"}))
}

func TestScopeLookupWalksParents(t *testing.T) {
	parent := NewScope(nil)
	parent.Insert(&Symbol{Name: "outer"})
	child := NewScope(parent)
	child.Insert(&Symbol{Name: "inner"})

	_, ok := child.Lookup("outer")
	assert.True(t, ok)
	_, ok = child.Lookup("inner")
	assert.True(t, ok)
	_, ok = parent.Lookup("inner")
	assert.False(t, ok)
}

func TestScopeLookupLocalDoesNotWalkParents(t *testing.T) {
	parent := NewScope(nil)
	parent.Insert(&Symbol{Name: "outer"})
	child := NewScope(parent)

	_, ok := child.LookupLocal("outer")
	assert.False(t, ok)
}

func TestScopeLookupMissingReturnsFalse(t *testing.T) {
	s := NewScope(nil)
	_, ok := s.Lookup("nope")
	assert.False(t, ok)
}

func TestScopeNextTempIDIsSequentialAndOneBased(t *testing.T) {
	s := NewScope(nil)
	assert.Equal(t, 1, s.NextTempID())
	assert.Equal(t, 2, s.NextTempID())
	assert.Equal(t, 3, s.NextTempID())
}

func TestScopeShadowingPrefersInnermost(t *testing.T) {
	outerDecl := &Node{Kind: KDecl, Name: "x"}
	innerDecl := &Node{Kind: KDecl, Name: "x"}
	parent := NewScope(nil)
	parent.Insert(&Symbol{Name: "x", Decl: outerDecl})
	child := NewScope(parent)
	child.Insert(&Symbol{Name: "x", Decl: innerDecl})

	sym, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Same(t, innerDecl, sym.Decl)

	sym, ok = parent.Lookup("x")
	require.True(t, ok)
	assert.Same(t, outerDecl, sym.Decl)
}

func TestScopeClosestNamesCollectsAcrossParents(t *testing.T) {
	parent := NewScope(nil)
	parent.Insert(&Symbol{Name: "alpha"})
	child := NewScope(parent)
	child.Insert(&Symbol{Name: "beta"})

	names := child.closestNames(10)
	assert.Contains(t, names, "alpha")
	assert.Contains(t, names, "beta")
}
