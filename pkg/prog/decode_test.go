package prog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshniemela/checkir/pkg/ir"
)

func TestDecodeTypeRoundTripsScalarAndArray(t *testing.T) {
	scalar, err := decodeType(wireType{IsArray: false, Elem: "i32"})
	require.NoError(t, err)
	assert.Equal(t, ir.Prim(ir.I32), scalar)

	arr, err := decodeType(wireType{
		IsArray: true,
		Elem:    "f32",
		Shape:   []wireDim{{Kind: "const", Const: 4}},
		Unique:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, ir.Array(ir.F32, ir.Shape{ir.ConstDim(4)}, ir.Unique), arr)
}

func TestDecodeTypeRejectsUnknownPrimitive(t *testing.T) {
	_, err := decodeType(wireType{Elem: "not-a-prim"})
	assert.Error(t, err)
}

func TestDecodeDimEveryKind(t *testing.T) {
	c, err := decodeDim(wireDim{Kind: "const", Const: 3})
	require.NoError(t, err)
	assert.Equal(t, ir.ConstDim(3), c)

	v, err := decodeDim(wireDim{Kind: "var", Var: wireName{Namespace: "var", Text: "n"}})
	require.NoError(t, err)
	assert.Equal(t, ir.VarDim(ir.NewName(ir.VarNamespace, "n")), v)

	e, err := decodeDim(wireDim{Kind: "ext", Ext: 2})
	require.NoError(t, err)
	assert.Equal(t, ir.ExtDim(2), e)

	_, err = decodeDim(wireDim{Kind: "bogus"})
	assert.Error(t, err)
}

func TestDecodeSubExpVarAndConst(t *testing.T) {
	se, err := decodeSubExp(wireSubExp{IsVar: true, Var: wireName{Namespace: "var", Text: "x"}})
	require.NoError(t, err)
	assert.True(t, se.IsVar)
	assert.Equal(t, ir.NewName(ir.VarNamespace, "x"), se.Var)

	lit, err := decodeSubExp(wireSubExp{IsVar: false, Kind: "i64", Value: float64(7)})
	require.NoError(t, err)
	assert.False(t, lit.IsVar)
	assert.Equal(t, ir.I64, lit.Kind)
}

func TestDecodeExprBinOp(t *testing.T) {
	e, err := decodeExpr(wireExpr{
		Kind:        "bin_op",
		Op:          "add",
		OperandType: "i32",
		X:           &wireSubExp{IsVar: true, Var: wireName{Namespace: "var", Text: "a"}},
		Y:           &wireSubExp{IsVar: true, Var: wireName{Namespace: "var", Text: "b"}},
	})
	require.NoError(t, err)
	bo, ok := e.(ir.BinOp)
	require.True(t, ok)
	assert.Equal(t, "add", bo.Op)
	assert.Equal(t, ir.I32, bo.OperandType)
}

func TestDecodeExprArrayLit(t *testing.T) {
	e, err := decodeExpr(wireExpr{
		Kind:     "array_lit",
		ElemType: "i32",
		Elems: []wireSubExp{
			{Kind: "i32", Value: float64(1)},
			{Kind: "i32", Value: float64(2)},
		},
	})
	require.NoError(t, err)
	lit, ok := e.(ir.ArrayLit)
	require.True(t, ok)
	assert.Len(t, lit.Elems, 2)
	assert.Equal(t, ir.I32, lit.ElemType)
}

func TestDecodeExprIfRecursesIntoBranches(t *testing.T) {
	e, err := decodeExpr(wireExpr{
		Kind: "if",
		Cond: &wireSubExp{IsVar: true, Var: wireName{Namespace: "var", Text: "c"}},
		Then: &wireBody{Result: []wireSubExp{{Kind: "i32", Value: float64(1)}}},
		Else: &wireBody{Result: []wireSubExp{{Kind: "i32", Value: float64(2)}}},
		RetType: []wireType{{Elem: "i32"}},
	})
	require.NoError(t, err)
	ifExpr, ok := e.(ir.If)
	require.True(t, ok)
	require.Len(t, ifExpr.Then.Result, 1)
	require.Len(t, ifExpr.Else.Result, 1)
}

func TestDecodeExprDoLoopForAndWhile(t *testing.T) {
	forExpr, err := decodeExpr(wireExpr{
		Kind: "do_loop",
		Form: "for",
		LoopVar: wireName{Namespace: "var", Text: "i"},
		Bound:   &wireSubExp{Kind: "i64", Value: float64(10)},
		Body:    &wireBody{Result: []wireSubExp{}},
	})
	require.NoError(t, err)
	dl, ok := forExpr.(ir.DoLoop)
	require.True(t, ok)
	assert.Equal(t, ir.ForLoop, dl.Form)

	whileExpr, err := decodeExpr(wireExpr{
		Kind:  "do_loop",
		Form:  "while",
		Cond2: wireName{Namespace: "var", Text: "cond"},
		Body:  &wireBody{Result: []wireSubExp{}},
	})
	require.NoError(t, err)
	dl2, ok := whileExpr.(ir.DoLoop)
	require.True(t, ok)
	assert.Equal(t, ir.WhileLoop, dl2.Form)
}

func TestDecodeExprOpPassesPayloadThrough(t *testing.T) {
	e, err := decodeExpr(wireExpr{
		Kind:   "op",
		OpName: "seg_map",
		Args:   []wireSubExp{{IsVar: true, Var: wireName{Namespace: "var", Text: "xs"}}},
		Raw:    map[string]interface{}{"out_shape": []interface{}{4.0}},
	})
	require.NoError(t, err)
	op, ok := e.(ir.OpExpr)
	require.True(t, ok)
	assert.Equal(t, "seg_map", op.OpName)
	assert.NotNil(t, op.Payload)
}

func TestDecodeExprRejectsUnknownKind(t *testing.T) {
	_, err := decodeExpr(wireExpr{Kind: "not-a-kind"})
	assert.Error(t, err)
}

func TestDecodeProgramBuildsFullFunDef(t *testing.T) {
	w := wireProgram{
		Funs: []wireFunDef{{
			Name:     wireName{Namespace: "func", Text: "identity"},
			RetTypes: []wireType{{Elem: "i32"}},
			Params: []wireParam{
				{Name: wireName{Namespace: "var", Text: "x"}, Type: wireType{Elem: "i32"}, Diet: "observe"},
			},
			Body: wireBody{
				Result: []wireSubExp{{IsVar: true, Var: wireName{Namespace: "var", Text: "x"}}},
			},
		}},
	}

	prog, err := decodeProgram(w)
	require.NoError(t, err)
	require.Len(t, prog.Funs, 1)
	assert.Equal(t, ir.NewName(ir.FuncNamespace, "identity"), prog.Funs[0].Name)
	assert.Equal(t, ir.NewName(ir.VarNamespace, "x"), prog.Funs[0].Params[0].Name)
}
