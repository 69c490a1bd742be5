package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameSetOperations(t *testing.T) {
	a := NewName(VarNamespace, "a")
	b := NewName(VarNamespace, "b")
	c := NewName(VarNamespace, "c")

	s := NewNameSet(a, b)
	assert.True(t, s.Has(a))
	assert.False(t, s.Has(c))
	assert.False(t, s.IsEmpty())

	union := s.Union(NewNameSet(c))
	assert.True(t, union.Has(a))
	assert.True(t, union.Has(c))
	assert.Len(t, union.Slice(), 3)

	minus := union.Minus(NewNameSet(a))
	assert.False(t, minus.Has(a))
	assert.True(t, minus.Has(b))

	assert.True(t, s.Intersects(union))
	assert.False(t, NewNameSet(a).Intersects(NewNameSet(c)))
	assert.True(t, NewNameSet().IsEmpty())
}

func TestNameTagDisambiguatesSameText(t *testing.T) {
	a0 := Name{Namespace: VarNamespace, Text: "x", Tag: 0}
	a1 := Name{Namespace: VarNamespace, Text: "x", Tag: 1}
	assert.NotEqual(t, a0, a1)
	assert.Equal(t, "x", a0.String())
	assert.Equal(t, "x_1", a1.String())
}

func TestNameNamespaceSeparatesIdentifierSpaces(t *testing.T) {
	v := Name{Namespace: VarNamespace, Text: "f"}
	f := Name{Namespace: FuncNamespace, Text: "f"}
	assert.NotEqual(t, v, f)
}
