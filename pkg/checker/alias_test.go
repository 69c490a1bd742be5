package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshniemela/checkir/pkg/ir"
)

func arrType() ir.Type {
	return ir.Array(ir.I32, ir.Shape{ir.ConstDim(4)}, ir.Nonunique)
}

func TestObserveScalarProducesNoOccurrence(t *testing.T) {
	env := NewEnv(true)
	n := ir.NewName(ir.VarNamespace, "s")
	undo := env.BindVar(n, NameInfo{Kind: LetInfoKind, Type: ir.Prim(ir.I32)})
	defer undo()

	typ, occ, errc := Observe(env, n)
	require.Nil(t, errc)
	assert.Equal(t, ir.Prim(ir.I32), typ)
	assert.Nil(t, occ)
}

func TestObserveArrayProducesOccurrenceOverFullAliasSet(t *testing.T) {
	env := NewEnv(true)
	x := ir.NewName(ir.VarNamespace, "x")
	y := ir.NewName(ir.VarNamespace, "y")

	undoX := env.BindVar(x, NameInfo{Kind: LetInfoKind, Type: arrType()})
	defer undoX()
	undoY := env.BindVar(y, NameInfo{Kind: LetInfoKind, Type: arrType(), Aliases: ir.NewNameSet(x)})
	defer undoY()

	_, occ, errc := Observe(env, y)
	require.Nil(t, errc)
	require.Len(t, occ, 1)
	assert.True(t, occ[0].Observed.Has(x))
	assert.True(t, occ[0].Observed.Has(y))
}

func TestBindVarSymmetrizesAliasRelation(t *testing.T) {
	env := NewEnv(true)
	x := ir.NewName(ir.VarNamespace, "x")
	y := ir.NewName(ir.VarNamespace, "y")

	undoX := env.BindVar(x, NameInfo{Kind: LetInfoKind, Type: arrType()})
	defer undoX()
	undoY := env.BindVar(y, NameInfo{Kind: LetInfoKind, Type: arrType(), Aliases: ir.NewNameSet(x)})

	xInfo, _ := env.Lookup(x)
	assert.True(t, xInfo.Aliases.Has(y), "binding y as an alias of x must symmetrize x's alias set")

	undoY()
	xInfo, _ = env.Lookup(x)
	assert.False(t, xInfo.Aliases.Has(y), "undoing y's binding must desymmetrize x's alias set")
}

func TestConsumeVarConsumesFullAliasSet(t *testing.T) {
	env := NewEnv(true)
	x := ir.NewName(ir.VarNamespace, "x")
	y := ir.NewName(ir.VarNamespace, "y")
	undoX := env.BindVar(x, NameInfo{Kind: LetInfoKind, Type: arrType()})
	defer undoX()
	undoY := env.BindVar(y, NameInfo{Kind: LetInfoKind, Type: arrType(), Aliases: ir.NewNameSet(x)})
	defer undoY()

	occ, errc := ConsumeVar(env, x)
	require.Nil(t, errc)
	require.Len(t, occ, 1)
	assert.True(t, occ[0].Consumed.Has(x))
	assert.True(t, occ[0].Consumed.Has(y))
}

func TestLookupVarUnknownVariable(t *testing.T) {
	env := NewEnv(true)
	_, errc := LookupVar(env, ir.NewName(ir.VarNamespace, "ghost"))
	require.NotNil(t, errc)
	_, ok := errc.(UnknownVariableError)
	assert.True(t, ok)
}
