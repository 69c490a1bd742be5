package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshniemela/checkir/pkg/ir"
)

func TestApplyRetTypeBindsExistentialFromArgument(t *testing.T) {
	n := ir.NewName(ir.VarNamespace, "n")
	params := []ir.Param{
		{Name: ir.NewName(ir.VarNamespace, "xs"), Type: ir.Array(ir.I32, ir.Shape{ir.VarDim(n)}, ir.Nonunique), Diet: ir.DietObserve},
	}
	retTypes := []ir.Type{ir.Array(ir.I32, ir.Shape{ir.VarDim(n)}, ir.Nonunique)}
	args := []ir.Type{ir.Array(ir.I32, ir.Shape{ir.ConstDim(7)}, ir.Nonunique)}

	out, errc := ApplyRetType(params, retTypes, args)
	require.Nil(t, errc)
	require.Len(t, out, 1)
	assert.Equal(t, ir.ConstDim(7), out[0].Shape[0])
}

func TestApplyRetTypeRejectsInconsistentBinding(t *testing.T) {
	n := ir.NewName(ir.VarNamespace, "n")
	params := []ir.Param{
		{Name: ir.NewName(ir.VarNamespace, "xs"), Type: ir.Array(ir.I32, ir.Shape{ir.VarDim(n)}, ir.Nonunique), Diet: ir.DietObserve},
		{Name: ir.NewName(ir.VarNamespace, "ys"), Type: ir.Array(ir.I32, ir.Shape{ir.VarDim(n)}, ir.Nonunique), Diet: ir.DietObserve},
	}
	retTypes := []ir.Type{ir.Prim(ir.I32)}
	args := []ir.Type{
		ir.Array(ir.I32, ir.Shape{ir.ConstDim(7)}, ir.Nonunique),
		ir.Array(ir.I32, ir.Shape{ir.ConstDim(8)}, ir.Nonunique),
	}

	_, errc := ApplyRetType(params, retTypes, args)
	require.NotNil(t, errc)
}

func TestBindDimVarsBindsFromFirstOccurrenceAndChecksLater(t *testing.T) {
	n := ir.NewName(ir.VarNamespace, "n")
	params := []ir.Param{
		{Name: ir.NewName(ir.VarNamespace, "xs"), Type: ir.Array(ir.I32, ir.Shape{ir.VarDim(n)}, ir.Nonunique), Diet: ir.DietObserve},
		{Name: ir.NewName(ir.VarNamespace, "ys"), Type: ir.Array(ir.I32, ir.Shape{ir.VarDim(n)}, ir.Nonunique), Diet: ir.DietObserve},
	}
	args := []ir.Type{
		ir.Array(ir.I32, ir.Shape{ir.ConstDim(7)}, ir.Nonunique),
		ir.Array(ir.I32, ir.Shape{ir.ConstDim(7)}, ir.Nonunique),
	}

	bindings, errc := bindDimVars(params, args)
	require.Nil(t, errc)
	assert.Equal(t, ir.ConstDim(7), bindings[n])
}

func TestBindDimVarsRejectsConflictingBindings(t *testing.T) {
	n := ir.NewName(ir.VarNamespace, "n")
	params := []ir.Param{
		{Name: ir.NewName(ir.VarNamespace, "xs"), Type: ir.Array(ir.I32, ir.Shape{ir.VarDim(n)}, ir.Nonunique), Diet: ir.DietObserve},
		{Name: ir.NewName(ir.VarNamespace, "ys"), Type: ir.Array(ir.I32, ir.Shape{ir.VarDim(n)}, ir.Nonunique), Diet: ir.DietObserve},
	}
	args := []ir.Type{
		ir.Array(ir.I32, ir.Shape{ir.ConstDim(7)}, ir.Nonunique),
		ir.Array(ir.I32, ir.Shape{ir.ConstDim(8)}, ir.Nonunique),
	}

	_, errc := bindDimVars(params, args)
	assert.NotNil(t, errc)
}

func TestSubstDimsLeavesUnboundDimVarsAlone(t *testing.T) {
	n := ir.NewName(ir.VarNamespace, "n")
	m := ir.NewName(ir.VarNamespace, "m")
	t2 := ir.Array(ir.I32, ir.Shape{ir.VarDim(n), ir.VarDim(m)}, ir.Nonunique)

	out := substDims(t2, map[ir.Name]ir.Dim{n: ir.ConstDim(3)})
	assert.Equal(t, ir.ConstDim(3), out.Shape[0])
	assert.Equal(t, ir.VarDim(m), out.Shape[1])
}

func TestApplyRetTypeArityMismatch(t *testing.T) {
	params := []ir.Param{{Name: ir.NewName(ir.VarNamespace, "x"), Type: ir.Prim(ir.I32), Diet: ir.DietObserve}}
	_, errc := ApplyRetType(params, nil, nil)
	require.NotNil(t, errc)
	_, ok := errc.(ParameterMismatch)
	assert.True(t, ok)
}

func TestGeneralizeTypeIntroducesFreshExtOnDisagreement(t *testing.T) {
	a := ir.Array(ir.I32, ir.Shape{ir.ConstDim(3)}, ir.Nonunique)
	b := ir.Array(ir.I32, ir.Shape{ir.ConstDim(4)}, ir.Nonunique)

	next := 0
	out, errc := generalizeType(a, b, &next)
	require.Nil(t, errc)
	assert.True(t, out.Shape[0].IsExt())
	assert.Equal(t, 1, next)
}

func TestGeneralizeTypeKeepsAgreeingDims(t *testing.T) {
	a := ir.Array(ir.I32, ir.Shape{ir.ConstDim(3)}, ir.Nonunique)
	b := ir.Array(ir.I32, ir.Shape{ir.ConstDim(3)}, ir.Unique)

	next := 0
	out, errc := generalizeType(a, b, &next)
	require.Nil(t, errc)
	assert.Equal(t, ir.ConstDim(3), out.Shape[0])
	assert.Equal(t, ir.Nonunique, out.Unique, "disagreeing uniqueness collapses to nonunique")
}

func TestGeneralizeTypeRejectsDifferentRank(t *testing.T) {
	a := ir.Array(ir.I32, ir.Shape{ir.ConstDim(3)}, ir.Nonunique)
	b := ir.Array(ir.I32, ir.Shape{ir.ConstDim(3), ir.ConstDim(1)}, ir.Nonunique)

	next := 0
	_, errc := generalizeType(a, b, &next)
	assert.NotNil(t, errc)
}
