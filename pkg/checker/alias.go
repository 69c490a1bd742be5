package checker

import "github.com/joshniemela/checkir/pkg/ir"

// LookupVar is the `lookupVar` sub-operation (spec §6): resolve a
// variable reference to its binding, or fail with UnknownVariableError.
func LookupVar(env *Env, v ir.Name) (NameInfo, ErrorCase) {
	info, ok := env.Lookup(v)
	if !ok {
		return NameInfo{}, UnknownVariableError{Vname: v}
	}
	return info, nil
}

// LookupAliases is the `lookupAliases` sub-operation (spec §6): the
// transitively-closed alias set of v, which always includes v itself
// (spec §8 invariant 1).
func LookupAliases(env *Env, v ir.Name) (ir.NameSet, ErrorCase) {
	if _, ok := env.Lookup(v); !ok {
		return nil, UnknownVariableError{Vname: v}
	}
	return env.ExpandAliases(ir.NewNameSet(v)), nil
}

// Observe is spec §4.4's `observe(v)`: look up v, and if its type is
// non-primitive, record an occurrence observing v's full alias set.
// Primitive-typed values carry no aliases and produce no occurrence.
func Observe(env *Env, v ir.Name) (ir.Type, Occurrences, ErrorCase) {
	info, ok := env.Lookup(v)
	if !ok {
		return ir.Type{}, nil, UnknownVariableError{Vname: v}
	}
	if !info.Type.IsArray {
		return info.Type, nil, nil
	}
	aliases, errc := LookupAliases(env, v)
	if errc != nil {
		return ir.Type{}, nil, errc
	}
	return info.Type, Single(Observes(aliases)), nil
}

// ObserveSubExp observes a SubExp: a literal yields its primitive type
// and no occurrence; a variable reference delegates to Observe (spec
// §4.5 "Sub-expression").
func ObserveSubExp(env *Env, e ir.SubExp) (ir.Type, Occurrences, ErrorCase) {
	if !e.IsVar {
		return ir.Prim(e.Kind), nil, nil
	}
	return Observe(env, e.Var)
}

// Consume is spec §4.4's `consume(alsSet)`: record an occurrence
// consuming the given alias set.
func Consume(names ir.NameSet) Occurrences {
	return Single(Consumes(names))
}

// ConsumeVar consumes the full (already-expanded) alias set of v.
func ConsumeVar(env *Env, v ir.Name) (Occurrences, ErrorCase) {
	aliases, errc := LookupAliases(env, v)
	if errc != nil {
		return nil, errc
	}
	return Consume(aliases), nil
}
