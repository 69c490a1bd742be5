package gpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshniemela/checkir/pkg/checker"
	"github.com/joshniemela/checkir/pkg/ir"
	"github.com/joshniemela/checkir/pkg/lore/gpu"
)

func TestNewReportsGpuName(t *testing.T) {
	assert.Equal(t, "gpu", gpu.New().Name())
}

func TestCheckOpRejectsUnknownOperator(t *testing.T) {
	env := checker.NewEnv(true)
	l := gpu.New()

	_, _, errc := l.CheckOp(env, ir.OpExpr{OpName: "seg_scan"})
	require.NotNil(t, errc)
	_, ok := errc.(checker.GenericTypeError)
	assert.True(t, ok)
}

func TestCheckOpSegMapAppliesElementwiseLambda(t *testing.T) {
	env := checker.NewEnv(true)
	xs := ir.NewName(ir.VarNamespace, "xs")
	undo := env.BindVar(xs, checker.NameInfo{
		Kind: checker.LetInfoKind,
		Type: ir.Array(ir.I32, ir.Shape{ir.ConstDim(4)}, ir.Nonunique),
	})
	defer undo()

	p := ir.NewName(ir.VarNamespace, "p")
	payload := gpu.SegMapPayload{
		Fun: ir.Lambda{
			Params:  []ir.Param{{Name: p, Type: ir.Prim(ir.I32), Diet: ir.DietObserve}},
			Body:    &ir.Body{Result: []ir.SubExp{ir.Var(p)}},
			RetType: []ir.Type{ir.Prim(ir.I32)},
		},
		OutShape: ir.Shape{ir.ConstDim(4)},
	}

	l := gpu.New()
	types, _, errc := l.CheckOp(env, ir.OpExpr{OpName: "seg_map", Args: []ir.SubExp{ir.Var(xs)}, Payload: payload})
	require.Nil(t, errc)
	require.Len(t, types, 1)
	assert.Equal(t, ir.Array(ir.I32, ir.Shape{ir.ConstDim(4)}, ir.Nonunique), types[0])
}

func TestCheckOpSegMapRejectsArityMismatch(t *testing.T) {
	env := checker.NewEnv(true)
	xs := ir.NewName(ir.VarNamespace, "xs")
	undo := env.BindVar(xs, checker.NameInfo{
		Kind: checker.LetInfoKind,
		Type: ir.Array(ir.I32, ir.Shape{ir.ConstDim(4)}, ir.Nonunique),
	})
	defer undo()

	payload := gpu.SegMapPayload{
		Fun: ir.Lambda{
			Params:  []ir.Param{},
			Body:    &ir.Body{Result: []ir.SubExp{ir.Const(ir.I32, int64(0))}},
			RetType: []ir.Type{ir.Prim(ir.I32)},
		},
		OutShape: ir.Shape{ir.ConstDim(4)},
	}

	l := gpu.New()
	_, _, errc := l.CheckOp(env, ir.OpExpr{OpName: "seg_map", Args: []ir.SubExp{ir.Var(xs)}, Payload: payload})
	require.NotNil(t, errc)
	_, ok := errc.(checker.ParameterMismatch)
	assert.True(t, ok)
}

func TestCheckOpSegRedReducesOverOuterDimension(t *testing.T) {
	env := checker.NewEnv(true)
	xs := ir.NewName(ir.VarNamespace, "xs")
	undo := env.BindVar(xs, checker.NameInfo{
		Kind: checker.LetInfoKind,
		Type: ir.Array(ir.I32, ir.Shape{ir.ConstDim(4)}, ir.Nonunique),
	})
	defer undo()

	a := ir.NewName(ir.VarNamespace, "a")
	b := ir.NewName(ir.VarNamespace, "b")
	payload := gpu.SegRedPayload{
		Op: ir.Lambda{
			Params: []ir.Param{
				{Name: a, Type: ir.Prim(ir.I32), Diet: ir.DietObserve},
				{Name: b, Type: ir.Prim(ir.I32), Diet: ir.DietObserve},
			},
			Body:    &ir.Body{Result: []ir.SubExp{ir.Var(a)}},
			RetType: []ir.Type{ir.Prim(ir.I32)},
		},
		Neutral: ir.Const(ir.I32, int64(0)),
	}

	l := gpu.New()
	types, _, errc := l.CheckOp(env, ir.OpExpr{OpName: "seg_red", Args: []ir.SubExp{ir.Var(xs)}, Payload: payload})
	require.Nil(t, errc)
	require.Len(t, types, 1)
	assert.Equal(t, ir.Prim(ir.I32), types[0])
}

func TestCheckOpSegRedRejectsScalarInput(t *testing.T) {
	env := checker.NewEnv(true)
	s := ir.NewName(ir.VarNamespace, "s")
	undo := env.BindVar(s, checker.NameInfo{Kind: checker.LetInfoKind, Type: ir.Prim(ir.I32)})
	defer undo()

	payload := gpu.SegRedPayload{
		Op: ir.Lambda{
			Params: []ir.Param{
				{Name: ir.NewName(ir.VarNamespace, "a"), Type: ir.Prim(ir.I32), Diet: ir.DietObserve},
				{Name: ir.NewName(ir.VarNamespace, "b"), Type: ir.Prim(ir.I32), Diet: ir.DietObserve},
			},
			Body:    &ir.Body{Result: []ir.SubExp{ir.Const(ir.I32, int64(0))}},
			RetType: []ir.Type{ir.Prim(ir.I32)},
		},
		Neutral: ir.Const(ir.I32, int64(0)),
	}

	l := gpu.New()
	_, _, errc := l.CheckOp(env, ir.OpExpr{OpName: "seg_red", Args: []ir.SubExp{ir.Var(s)}, Payload: payload})
	require.NotNil(t, errc)
	_, ok := errc.(checker.GenericTypeError)
	assert.True(t, ok)
}
