package checker

import "github.com/joshniemela/checkir/pkg/ir"

var freshParamCounter int

// freshParam synthesizes a fresh parameter name for a built-in function
// signature, monotonically increasing so two built-ins never collide
// (spec §4.8 step 2: "built-in functions, each parameterized by a
// synthesized fresh parameter name").
func freshParam(base string) ir.Name {
	freshParamCounter++
	return ir.Name{Namespace: ir.VarNamespace, Text: base, Tag: freshParamCounter}
}

func scalarParam(base string, k ir.PrimKind) ir.Param {
	return ir.Param{Name: freshParam(base), Type: ir.Prim(k), Diet: ir.DietObserve}
}

// BuiltinFuncs returns the fixed table of built-in functions every
// program's function table is seeded with (spec §4.8 step 2). Each entry
// is freshly constructed so that repeated calls (e.g. once per checked
// program, spec §8 property 6's purity requirement) never share mutable
// state with each other.
func BuiltinFuncs() map[ir.Name]FuncBinding {
	unary := func(name string, k ir.PrimKind) (ir.Name, FuncBinding) {
		return ir.NewName(ir.FuncNamespace, name), FuncBinding{
			RetTypes: []ir.Type{ir.Prim(k)},
			Params:   []ir.Param{scalarParam("x", k)},
		}
	}

	out := map[ir.Name]FuncBinding{}

	for _, pair := range []struct {
		name string
		k    ir.PrimKind
	}{
		{"sqrt32", ir.F32}, {"sqrt64", ir.F64},
		{"sgn32", ir.I32}, {"sgn64", ir.I64},
	} {
		n, b := unary(pair.name, pair.k)
		out[n] = b
	}

	// size: returns the i64 extent of one named array dimension. Models
	// a built-in whose return type carries no existentials, unlike the
	// user-function case apply.go generalizes.
	sizeParamArr := freshParam("arr")
	out[ir.NewName(ir.FuncNamespace, "size")] = FuncBinding{
		RetTypes: []ir.Type{ir.Prim(ir.I64)},
		Params: []ir.Param{
			{Name: sizeParamArr, Type: ir.Array(ir.I32, ir.Shape{ir.VarDim(freshParam("n"))}, ir.Nonunique), Diet: ir.DietObserve},
		},
	}

	return out
}
