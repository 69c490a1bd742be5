package checker

import "github.com/joshniemela/checkir/pkg/ir"

// ApplyRetType instantiates a callee's declared return types against the
// actual argument types of one call (spec §4.5 "Apply", §9's
// `applyRetType`, left external/unspecified by the source spec). A
// parameter's shape dimensions that are DimVar act as the existential
// placeholders described in spec §3: the first argument position whose
// corresponding declared dimension is a given DimVar binds that
// variable's actual value; every later occurrence of the same DimVar,
// whether in a later parameter or in the return types, must agree.
func ApplyRetType(params []ir.Param, retTypes []ir.Type, args []ir.Type) ([]ir.Type, ErrorCase) {
	if len(params) != len(args) {
		want := make([]ir.Type, len(params))
		for i, p := range params {
			want[i] = p.Type
		}
		return nil, ParameterMismatch{Expected: want, Got: args}
	}

	bindings, errc := bindDimVars(params, args)
	if errc != nil {
		return nil, errc
	}

	out := make([]ir.Type, len(retTypes))
	for i, rt := range retTypes {
		out[i] = substDims(rt, bindings)
	}
	return out, nil
}

// bindDimVars walks params against their actual argument types and binds
// every DimVar appearing in a declared shape to the actual dimension found
// at the same shape position, the first time it is encountered; every
// later occurrence of the same DimVar must agree (spec §3's existential
// placeholders, applied to named parameter dimensions rather than `Ext`
// positions). Shared by ApplyRetType and the call-site subtype check in
// checkApply/checkDoLoop, which must substitute these bindings into a
// parameter's declared type before comparing it against the actual
// argument type.
func bindDimVars(params []ir.Param, args []ir.Type) (map[ir.Name]ir.Dim, ErrorCase) {
	bindings := map[ir.Name]ir.Dim{}
	for i, p := range params {
		if !p.Type.IsArray || !args[i].IsArray || len(p.Type.Shape) != len(args[i].Shape) {
			continue
		}
		for j, d := range p.Type.Shape {
			if d.Kind != ir.DimVar {
				continue
			}
			actual := args[i].Shape[j]
			if bound, ok := bindings[d.Var]; ok {
				if !bound.Equal(actual) {
					return nil, GenericTypeError{Msg: "inconsistent binding for dimension " + d.Var.String()}
				}
			} else {
				bindings[d.Var] = actual
			}
		}
	}
	return bindings, nil
}

func substDims(t ir.Type, bindings map[ir.Name]ir.Dim) ir.Type {
	if !t.IsArray {
		return t
	}
	newShape := make(ir.Shape, len(t.Shape))
	for i, d := range t.Shape {
		if d.Kind == ir.DimVar {
			if bound, ok := bindings[d.Var]; ok {
				newShape[i] = bound
				continue
			}
		}
		newShape[i] = d
	}
	return ir.Array(t.Elem, newShape, t.Unique)
}

// sameElemAndRank reports whether two types could plausibly unify:
// same array-ness, same element kind, and (for arrays) same rank.
func sameElemAndRank(a, b ir.Type) bool {
	if a.IsArray != b.IsArray || a.Elem != b.Elem {
		return false
	}
	if a.IsArray && a.Rank() != b.Rank() {
		return false
	}
	return true
}

// generalizeType computes the pointwise least-upper-bound of two types,
// replacing disagreeing concrete dimensions with a fresh existential
// (spec GLOSSARY "Generalized ext types", used at `If`). Returns an error
// if the two types cannot be generalized at all (different element kind
// or rank).
func generalizeType(a, b ir.Type, nextExt *int) (ir.Type, ErrorCase) {
	if !sameElemAndRank(a, b) {
		return ir.Type{}, GenericTypeError{Msg: "branches disagree on type: " + a.String() + " vs " + b.String()}
	}
	if !a.IsArray {
		return a, nil
	}
	shape := make(ir.Shape, len(a.Shape))
	for i := range a.Shape {
		if a.Shape[i].Equal(b.Shape[i]) {
			shape[i] = a.Shape[i]
		} else {
			shape[i] = ir.ExtDim(*nextExt)
			*nextExt++
		}
	}
	u := a.Unique
	if b.Unique != a.Unique {
		u = ir.Nonunique
	}
	return ir.Array(a.Elem, shape, u), nil
}

// generalizeTypes generalizes two same-length type lists position by
// position.
func generalizeTypes(a, b []ir.Type) ([]ir.Type, ErrorCase) {
	if len(a) != len(b) {
		return nil, GenericTypeError{Msg: "branches return different numbers of values"}
	}
	next := 0
	out := make([]ir.Type, len(a))
	for i := range a {
		t, errc := generalizeType(a[i], b[i], &next)
		if errc != nil {
			return nil, errc
		}
		out[i] = t
	}
	return out, nil
}
