package checker

import "github.com/joshniemela/checkir/pkg/ir"

// CheckBody type-checks a sequence of let-bindings followed by a result
// (spec §4.5 "Body", §3 "Occurrence list"). It returns the result types,
// the body's net occurrences with its own local bindings unoccured (spec
// §4.3's `unoccur`), and, for every result element that names a variable,
// the full alias set that name held just before those bindings were torn
// down — the only point at which a caller can still ask "what does this
// result alias" for a name that belongs to this body's own scope (used by
// checkFunctionLike's unique-return aliasing check, spec §4.6 step 4).
func CheckBody(env *Env, lore Checkable, body *ir.Body) ([]ir.Type, Occurrences, []ir.NameSet, ErrorCase) {
	if errc := lore.CheckBodyAttr(env, body); errc != nil {
		return nil, nil, nil, errc
	}

	pop := env.PushBreadcrumb("body")
	defer pop()

	var occs Occurrences
	bound := ir.NewNameSet()
	var undos []func()
	defer func() {
		for i := len(undos) - 1; i >= 0; i-- {
			undos[i]()
		}
	}()

	for _, stm := range body.Stms {
		seen := ir.NewNameSet()
		for _, elem := range stm.Pattern {
			if seen.Has(elem.Name) {
				return nil, nil, nil, DupPatternError{Vname: elem.Name}
			}
			seen.Add(elem.Name)
		}

		actual, exprOccs, errc := CheckExp(env, lore, stm.Exp)
		if errc != nil {
			return nil, nil, nil, errc
		}
		if errc := lore.MatchPattern(stm.Pattern, actual); errc != nil {
			return nil, nil, nil, errc
		}

		next, errc := Seq(occs, exprOccs)
		if errc != nil {
			return nil, nil, nil, errc
		}
		occs = next

		infos := make([]NameInfo, len(stm.Pattern))
		for i, elem := range stm.Pattern {
			if errc := lore.CheckLetAttr(env, elem); errc != nil {
				return nil, nil, nil, errc
			}
			infos[i] = NameInfo{Kind: LetInfoKind, Type: elem.Type, Aliases: elem.Aliases}
		}
		names := stm.Pattern.Names()
		undos = append(undos, env.BindVars(names, infos))
		bound = bound.Union(ir.NewNameSet(names...))
	}

	resultTypes := make([]ir.Type, len(body.Result))
	resultAliases := make([]ir.NameSet, len(body.Result))
	var resultOccs Occurrences
	for i, r := range body.Result {
		t, o, errc := ObserveSubExp(env, r)
		if errc != nil {
			return nil, nil, nil, errc
		}
		resultTypes[i] = t
		if r.IsVar {
			resultAliases[i] = env.ExpandAliases(ir.NewNameSet(r.Var))
		}
		next, errc := Seq(resultOccs, o)
		if errc != nil {
			return nil, nil, nil, errc
		}
		resultOccs = next
	}

	final, errc := Seq(occs, resultOccs)
	if errc != nil {
		return nil, nil, nil, errc
	}
	final = Unoccur(bound, final)
	return resultTypes, final, resultAliases, nil
}

// checkFunctionLike checks a parameterized body (a FunDef, Lambda,
// ExtLambda, or DoLoop, each treated as an anonymous function applied to
// its arguments, spec §4.5 "DoLoop", §4.6, §4.7) and enforces the shared
// invariants every callable form obeys: no duplicate parameter names, the
// body's result matches the declared return types, and no unique return
// value aliases a parameter that was not itself consumed, nor aliases
// another unique return value (spec §4.6 step 4, testable property 3).
func checkFunctionLike(env *Env, lore Checkable, fname ir.Name, params []ir.Param, retTypes []ir.Type, body *ir.Body) (Occurrences, ErrorCase) {
	seen := ir.NewNameSet()
	infos := make([]NameInfo, len(params))
	names := make([]ir.Name, len(params))
	for i, p := range params {
		if seen.Has(p.Name) {
			return nil, DupParamError{Fname: fname, Pname: p.Name}
		}
		seen.Add(p.Name)
		if errc := lore.CheckParamAttr(env, p); errc != nil {
			return nil, errc
		}
		kind := FParamInfoKind
		infos[i] = NameInfo{Kind: kind, Type: p.Type, Diet: p.Diet}
		names[i] = p.Name
	}
	undo := env.BindVars(names, infos)
	defer undo()

	actual, occs, resultAliases, errc := CheckBody(env, lore, body)
	if errc != nil {
		return nil, errc
	}
	if errc := lore.MatchReturnType(fname, retTypes, actual); errc != nil {
		return nil, errc
	}
	if errc := checkReturnAliasing(fname, params, retTypes, resultAliases); errc != nil {
		return nil, errc
	}

	return Unoccur(ir.NewNameSet(names...), occs), nil
}

// checkReturnAliasing is spec §4.6 step 4's fold over return positions: a
// unique-typed return value may only alias parameters that were consumed
// by the body (an unconsumed parameter must still be safely reusable by
// the caller after the call returns), and no two unique return values may
// alias each other (each caller-visible unique value must be exclusively
// theirs).
func checkReturnAliasing(fname ir.Name, params []ir.Param, retTypes []ir.Type, resultAliases []ir.NameSet) ErrorCase {
	consumed := ir.NewNameSet()
	for _, p := range params {
		if p.Diet == ir.DietConsume {
			consumed.Add(p.Name)
		}
	}

	var claimed ir.NameSet = ir.NewNameSet()
	for i, rt := range retTypes {
		if rt.Uniqueness() != ir.Unique || i >= len(resultAliases) {
			continue
		}
		aliases := resultAliases[i]
		for _, p := range params {
			if aliases.Has(p.Name) && !consumed.Has(p.Name) {
				return ReturnAliased{Fname: fname, Vname: p.Name}
			}
		}
		if claimed.Intersects(aliases) {
			return UniqueReturnAliased{Fname: fname}
		}
		claimed = claimed.Union(aliases)
	}
	return nil
}

// CheckFun checks one top-level function declaration and wraps the first
// failure with the breadcrumb trail as it stands once checkFunctionLike
// has returned: the function's own label, without the labels that nested
// bodies pushed and popped (spec §4.2, §4.6). Env must already have its
// function table seeded (spec §4.8).
func CheckFun(env *Env, lore Checkable, fn *ir.FunDef) error {
	pop := env.PushBreadcrumb("function " + fn.Name.String())
	defer pop()

	if _, errc := checkFunctionLike(env, lore, fn.Name, fn.Params, fn.RetTypes, fn.Body); errc != nil {
		return Bad(env, errc)
	}
	return nil
}

func checkLambda(env *Env, lore Checkable, x ir.Lambda) ([]ir.Type, Occurrences, ErrorCase) {
	fname := ir.NewName(ir.FuncNamespace, "<lambda>")
	occs, errc := checkFunctionLike(env, lore, fname, x.Params, x.RetType, x.Body)
	if errc != nil {
		return nil, nil, errc
	}
	return x.RetType, occs, nil
}

func checkExtLambda(env *Env, lore Checkable, x ir.ExtLambda) ([]ir.Type, Occurrences, ErrorCase) {
	fname := ir.NewName(ir.FuncNamespace, "<ext-lambda>")
	occs, errc := checkFunctionLike(env, lore, fname, x.Params, x.RetType, x.Body)
	if errc != nil {
		return nil, nil, errc
	}
	return x.RetType, occs, nil
}

// checkDoLoop checks a For or While loop as an anonymous function applied
// to its merge arguments (spec §4.5 "DoLoop"). A For loop's body receives
// an extra observe-only i32 parameter (the loop index) and returns exactly
// the merge types; a While loop's body additionally returns, as its last
// result, the Bool that decides whether iteration continues — the spec
// leaves the exact shape of the continuation test external/unspecified
// (§9), and this is the chosen, documented resolution (see DESIGN.md).
func checkDoLoop(env *Env, lore Checkable, x ir.DoLoop) ([]ir.Type, Occurrences, ErrorCase) {
	var preOccs Occurrences
	switch x.Form {
	case ir.ForLoop:
		t, o, errc := ObserveSubExp(env, x.Bound)
		if errc != nil {
			return nil, nil, errc
		}
		if errc := Require("for-loop bound", t, ir.Prim(ir.I32)); errc != nil {
			return nil, nil, errc
		}
		preOccs = o
	case ir.WhileLoop:
		info, errc := LookupVar(env, x.CondName)
		if errc != nil {
			return nil, nil, errc
		}
		if errc := Require("while-loop condition", info.Type, ir.Prim(ir.Bool)); errc != nil {
			return nil, nil, errc
		}
	}

	loopName := ir.NewName(ir.FuncNamespace, "<loop>")
	params := make([]ir.Param, 0, len(x.Merge)+1)
	initTypes := make([]ir.Type, 0, len(x.Merge))
	var mergeOccs Occurrences
	for _, mp := range x.Merge {
		t, o, errc := ObserveSubExp(env, mp.Init)
		if errc != nil {
			return nil, nil, errc
		}
		next, errc := Seq(mergeOccs, o)
		if errc != nil {
			return nil, nil, errc
		}
		mergeOccs = next
		params = append(params, mp.Param)
		initTypes = append(initTypes, t)
	}

	// Bind the merge parameters' DimVar shape dimensions from the actual
	// init expressions' shapes before checking the subtype relation, the
	// same existential binding checkApply performs for call arguments: a
	// loop-carried array whose declared shape names a DimVar is not
	// required to literally repeat that name in its init value. The body
	// is still checked against the symbolic, unsubstituted param types;
	// the substituted types become the DoLoop's externally visible
	// result, the same way ApplyRetType substitutes a callee's declared
	// return types.
	bindings, errc := bindDimVars(params, initTypes)
	if errc != nil {
		return nil, nil, errc
	}
	declaredRetTypes := make([]ir.Type, len(params))
	retTypes := make([]ir.Type, len(params))
	for i, p := range params {
		declaredRetTypes[i] = p.Type
		want := substDims(p.Type, bindings)
		if !ir.IsSubtype(initTypes[i], want) {
			return nil, nil, ParameterMismatch{Fname: loopName, Expected: []ir.Type{want}, Got: []ir.Type{initTypes[i]}}
		}
		retTypes[i] = want
	}

	bodyParams := params
	if x.Form == ir.ForLoop {
		bodyParams = append(append([]ir.Param{}, params...), ir.Param{Name: x.LoopVar, Type: ir.Prim(ir.I32), Diet: ir.DietObserve})
	}
	bodyRetTypes := declaredRetTypes
	if x.Form == ir.WhileLoop {
		bodyRetTypes = append(append([]ir.Type{}, declaredRetTypes...), ir.Prim(ir.Bool))
	}

	occs, errc := checkFunctionLike(env, lore, loopName, bodyParams, bodyRetTypes, x.Body)
	if errc != nil {
		return nil, nil, errc
	}

	all, errc := SeqAll(preOccs, mergeOccs, occs)
	if errc != nil {
		return nil, nil, errc
	}
	return retTypes, all, nil
}
