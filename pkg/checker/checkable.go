package checker

import "github.com/joshniemela/checkir/pkg/ir"

// Checkable is the capability an IR flavor ("lore", spec GLOSSARY) must
// supply: the hooks the core checker calls out to for lore-specific
// annotations and for backend-specific operators (spec §4.7). It plays
// the same role the teacher's rules.Registry/rules.Rule pair plays —
// a pluggable capability, selected once per top-level invocation and
// never re-dispatched on the hot path inside a single check.
type Checkable interface {
	// Name identifies the lore for diagnostics and lore selection.
	Name() string

	// CheckOp verifies a custom Op(...) expression (spec §4.5
	// "Op(custom)") and returns its result types plus any
	// observe/consume occurrences it performed.
	CheckOp(env *Env, op ir.OpExpr) ([]ir.Type, Occurrences, ErrorCase)

	// CheckExpAttr, CheckBodyAttr, CheckParamAttr and CheckLetAttr verify
	// whatever pass-specific annotation the lore attaches to an
	// expression, body, parameter or let-binding. A lore with no extra
	// annotations returns nil unconditionally.
	CheckExpAttr(env *Env, e ir.Expr) ErrorCase
	CheckBodyAttr(env *Env, b *ir.Body) ErrorCase
	CheckParamAttr(env *Env, p ir.Param) ErrorCase
	CheckLetAttr(env *Env, elem ir.PatElem) ErrorCase

	// MatchPattern verifies that a pattern can bind the actual result
	// types of the expression it is attached to.
	MatchPattern(pat ir.Pattern, actual []ir.Type) ErrorCase

	// MatchReturnType verifies a function's body result types against
	// its declaration.
	MatchReturnType(fname ir.Name, declared, actual []ir.Type) ErrorCase
}

// BaseCheckable implements the lore-agnostic defaults every lore shares
// (no extra annotations, ir.IsSubtype matching in which existential
// dimensions act as wildcards), the same way the
// teacher's rules.BaseRule carries the shared scaffold every Rule embeds.
// A concrete lore embeds BaseCheckable and overrides only what it needs —
// typically just CheckOp.
type BaseCheckable struct {
	LoreName string
}

func (b *BaseCheckable) Name() string { return b.LoreName }

func (b *BaseCheckable) CheckExpAttr(*Env, ir.Expr) ErrorCase       { return nil }
func (b *BaseCheckable) CheckBodyAttr(*Env, *ir.Body) ErrorCase     { return nil }
func (b *BaseCheckable) CheckParamAttr(*Env, ir.Param) ErrorCase    { return nil }
func (b *BaseCheckable) CheckLetAttr(*Env, ir.PatElem) ErrorCase    { return nil }

// MatchPattern checks arity and the ir.IsSubtype relation between each
// pattern element's declared ExtType and the actual Type, letting
// existential dimensions in the pattern accept any concrete dimension.
// Types are not reduced to their rank-shaped form: a concrete dimension
// must equal the declared one.
func (b *BaseCheckable) MatchPattern(pat ir.Pattern, actual []ir.Type) ErrorCase {
	if len(pat) != len(actual) {
		return InvalidPatternError{
			Pat: renderPattern(pat), Ts: actual,
			Note: "arity mismatch",
		}
	}
	for i, elem := range pat {
		if !ir.IsSubtype(actual[i], elem.Type) {
			return InvalidPatternError{
				Pat: renderPattern(pat), Ts: actual,
				Note: elem.Name.String() + ": declared " + elem.Type.String() + ", got " + actual[i].String(),
			}
		}
	}
	return nil
}

// MatchReturnType checks that each actual result type is a subtype of
// the corresponding declared return type (spec §4.5 "If", §4.6 step 4).
// Uniqueness is ignored here; whether a unique return is legal is decided
// by checkReturnAliasing. Types are not reduced to their rank-shaped form:
// a concrete dimension must equal the declared one.
func (b *BaseCheckable) MatchReturnType(fname ir.Name, declared, actual []ir.Type) ErrorCase {
	if len(declared) != len(actual) {
		return ReturnTypeError{Fname: fname, Declared: declared, Actual: actual}
	}
	for i := range declared {
		if !ir.IsSubtype(actual[i].AsNonunique(), declared[i].AsNonunique()) {
			return ReturnTypeError{Fname: fname, Declared: declared, Actual: actual}
		}
	}
	return nil
}

func renderPattern(pat ir.Pattern) string {
	s := "("
	for i, e := range pat {
		if i > 0 {
			s += ", "
		}
		s += e.Name.String()
	}
	return s + ")"
}
