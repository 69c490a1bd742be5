package checker

import "github.com/joshniemela/checkir/pkg/ir"

// Require is the `require` sub-operation (spec §6): actual must equal one
// of allowed, or the call fails with UnexpectedType.
func Require(label string, actual ir.Type, allowed ...ir.Type) ErrorCase {
	for _, a := range allowed {
		if actual.Equal(a) {
			return nil
		}
	}
	return UnexpectedType{E: label, T: actual, Allowed: allowed}
}

// RequireI is `requireI` (spec §6): like Require, but also returns the
// index of the matching allowed type, for callers that branch on which
// alternative matched.
func RequireI(label string, actual ir.Type, allowed ...ir.Type) (int, ErrorCase) {
	for i, a := range allowed {
		if actual.Equal(a) {
			return i, nil
		}
	}
	return -1, UnexpectedType{E: label, T: actual, Allowed: allowed}
}

func renderSubExp(e ir.SubExp) string {
	if e.IsVar {
		return e.Var.String()
	}
	return ir.Prim(e.Kind).String() + " literal"
}

// subExpToDim renders a SubExp as a Dim for use in a result shape: a
// variable reference carries its name forward as a DimVar, a literal
// integer becomes a DimConst, and anything else (a non-constant scalar
// expression used as a size) falls back to a fresh existential, since its
// value is not known until runtime.
func subExpToDim(e ir.SubExp, nextExt *int) ir.Dim {
	if e.IsVar {
		return ir.VarDim(e.Var)
	}
	if n, ok := asInt64(e.Value); ok {
		return ir.ConstDim(n)
	}
	d := ir.ExtDim(*nextExt)
	*nextExt++
	return d
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	}
	return 0, false
}
