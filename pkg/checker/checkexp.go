package checker

import "github.com/joshniemela/checkir/pkg/ir"

// CheckExp type-checks one IR expression, verifying operand types and
// shapes, recording the observations/consumptions it performs, and
// returning the expression's statically-known result type(s) (spec
// §4.5). Result types may carry existential dimensions (e.g. from `If`
// or `Concat`); the enclosing let-binding's pattern instantiates them
// (spec §3 "ExtType").
func CheckExp(env *Env, lore Checkable, e ir.Expr) ([]ir.Type, Occurrences, ErrorCase) {
	if errc := lore.CheckExpAttr(env, e); errc != nil {
		return nil, nil, errc
	}

	switch x := e.(type) {
	case ir.SubExpExpr:
		t, occ, errc := ObserveSubExp(env, x.SubExp)
		if errc != nil {
			return nil, nil, errc
		}
		return []ir.Type{t}, occ, nil

	case ir.BinOp:
		return checkBinOp(env, x)
	case ir.UnOp:
		return checkUnOp(env, x)
	case ir.CmpOp:
		return checkCmpOp(env, x)
	case ir.ConvOp:
		return checkConvOp(env, x)

	case ir.ArrayLit:
		return checkArrayLit(env, x)
	case ir.Index:
		return checkIndex(env, x)
	case ir.Iota:
		return checkIota(env, x)
	case ir.Replicate:
		return checkReplicate(env, x)
	case ir.Scratch:
		return []ir.Type{ir.Array(x.ElemType, x.Shape, ir.Unique)}, nil, nil
	case ir.Reshape:
		return checkReshape(env, x)
	case ir.Rearrange:
		return checkRearrange(env, x)
	case ir.Split:
		return checkSplit(env, x)
	case ir.Concat:
		return checkConcat(env, x)
	case ir.Copy:
		return checkCopy(env, x)
	case ir.Assert:
		return checkAssert(env, x)
	case ir.Partition:
		return checkPartition(env, x)

	case ir.If:
		return checkIf(env, lore, x)
	case ir.Apply:
		return checkApply(env, lore, x)
	case ir.DoLoop:
		return checkDoLoop(env, lore, x)
	case ir.Lambda:
		return checkLambda(env, lore, x)
	case ir.ExtLambda:
		return checkExtLambda(env, lore, x)

	case ir.OpExpr:
		return lore.CheckOp(env, x)

	default:
		return nil, nil, GenericTypeError{Msg: "unrecognized expression form"}
	}
}

func checkBinOp(env *Env, x ir.BinOp) ([]ir.Type, Occurrences, ErrorCase) {
	return checkTwoOperand(env, "binop "+x.Op, x.X, x.Y, x.OperandType)
}

func checkCmpOp(env *Env, x ir.CmpOp) ([]ir.Type, Occurrences, ErrorCase) {
	types, occs, errc := checkTwoOperand(env, "cmpop "+x.Op, x.X, x.Y, x.OperandType)
	if errc != nil {
		return nil, nil, errc
	}
	_ = types
	return []ir.Type{ir.Prim(ir.Bool)}, occs, nil
}

func checkTwoOperand(env *Env, label string, x, y ir.SubExp, want ir.PrimKind) ([]ir.Type, Occurrences, ErrorCase) {
	tx, ox, errc := ObserveSubExp(env, x)
	if errc != nil {
		return nil, nil, errc
	}
	if errc := Require(label+" lhs", tx, ir.Prim(want)); errc != nil {
		return nil, nil, errc
	}
	ty, oy, errc := ObserveSubExp(env, y)
	if errc != nil {
		return nil, nil, errc
	}
	if errc := Require(label+" rhs", ty, ir.Prim(want)); errc != nil {
		return nil, nil, errc
	}
	occs, errc := Seq(ox, oy)
	if errc != nil {
		return nil, nil, errc
	}
	return []ir.Type{ir.Prim(want)}, occs, nil
}

func checkUnOp(env *Env, x ir.UnOp) ([]ir.Type, Occurrences, ErrorCase) {
	t, occ, errc := ObserveSubExp(env, x.X)
	if errc != nil {
		return nil, nil, errc
	}
	if errc := Require("unop "+x.Op, t, ir.Prim(x.OperandType)); errc != nil {
		return nil, nil, errc
	}
	return []ir.Type{ir.Prim(x.OperandType)}, occ, nil
}

func checkConvOp(env *Env, x ir.ConvOp) ([]ir.Type, Occurrences, ErrorCase) {
	t, occ, errc := ObserveSubExp(env, x.X)
	if errc != nil {
		return nil, nil, errc
	}
	if errc := Require("convert", t, ir.Prim(x.From)); errc != nil {
		return nil, nil, errc
	}
	return []ir.Type{ir.Prim(x.To)}, occ, nil
}

func checkArrayLit(env *Env, x ir.ArrayLit) ([]ir.Type, Occurrences, ErrorCase) {
	var occs Occurrences
	for _, elem := range x.Elems {
		t, o, errc := ObserveSubExp(env, elem)
		if errc != nil {
			return nil, nil, errc
		}
		if errc := Require("array literal element", t, ir.Prim(x.ElemType)); errc != nil {
			return nil, nil, errc
		}
		occs, errc = Seq(occs, o)
		if errc != nil {
			return nil, nil, errc
		}
	}
	return []ir.Type{ir.Array(x.ElemType, ir.Shape{ir.ConstDim(int64(len(x.Elems)))}, ir.Nonunique)}, occs, nil
}

func lookupArray(env *Env, name ir.Name) (ir.Type, ErrorCase) {
	info, errc := LookupVar(env, name)
	if errc != nil {
		return ir.Type{}, errc
	}
	if !info.Type.IsArray {
		return ir.Type{}, NotAnArray{Vname: name, T: info.Type}
	}
	return info.Type, nil
}

func checkIndex(env *Env, x ir.Index) ([]ir.Type, Occurrences, ErrorCase) {
	arrType, errc := lookupArray(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	if len(x.Indices) > arrType.Rank() {
		return nil, nil, IndexingError{Rank: arrType.Rank(), Got: len(x.Indices)}
	}

	arrT, arrOccs, errc := Observe(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	_ = arrT
	occs := arrOccs

	for _, idx := range x.Indices {
		t, o, errc := ObserveSubExp(env, idx)
		if errc != nil {
			return nil, nil, errc
		}
		if errc := Require("index", t, ir.Prim(ir.I32)); errc != nil {
			return nil, nil, errc
		}
		occs, errc = Seq(occs, o)
		if errc != nil {
			return nil, nil, errc
		}
	}

	if x.Cert != nil {
		t, o, errc := ObserveSubExp(env, *x.Cert)
		if errc != nil {
			return nil, nil, errc
		}
		if errc := Require("certificate", t, ir.Prim(ir.Cert)); errc != nil {
			return nil, nil, errc
		}
		occs, errc = Seq(occs, o)
		if errc != nil {
			return nil, nil, errc
		}
	}

	remaining := arrType.Shape[len(x.Indices):]
	if len(remaining) == 0 {
		return []ir.Type{ir.Prim(arrType.Elem)}, occs, nil
	}
	return []ir.Type{ir.Array(arrType.Elem, remaining, ir.Nonunique)}, occs, nil
}

func checkIota(env *Env, x ir.Iota) ([]ir.Type, Occurrences, ErrorCase) {
	t, occ, errc := ObserveSubExp(env, x.N)
	if errc != nil {
		return nil, nil, errc
	}
	if errc := Require("iota bound", t, ir.Prim(ir.I64)); errc != nil {
		return nil, nil, errc
	}
	if !x.ElemType.IsNumeric() {
		return nil, nil, GenericTypeError{Msg: "iota element type must be numeric, got " + x.ElemType.String()}
	}
	next := 0
	return []ir.Type{ir.Array(x.ElemType, ir.Shape{subExpToDim(x.N, &next)}, ir.Nonunique)}, occ, nil
}

func checkReplicate(env *Env, x ir.Replicate) ([]ir.Type, Occurrences, ErrorCase) {
	vt, occ, errc := ObserveSubExp(env, x.Value)
	if errc != nil {
		return nil, nil, errc
	}
	elem := vt.Elem
	var inner ir.Shape
	if vt.IsArray {
		inner = vt.Shape
	}
	shape := make(ir.Shape, 0, len(x.Shape)+len(inner))
	shape = append(shape, x.Shape...)
	shape = append(shape, inner...)
	return []ir.Type{ir.Array(elem, shape, ir.Nonunique)}, occ, nil
}

func checkReshape(env *Env, x ir.Reshape) ([]ir.Type, Occurrences, ErrorCase) {
	arrType, errc := lookupArray(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	_, occ, errc := Observe(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	return []ir.Type{ir.Array(arrType.Elem, x.NewShape, arrType.Unique)}, occ, nil
}

func checkRearrange(env *Env, x ir.Rearrange) ([]ir.Type, Occurrences, ErrorCase) {
	arrType, errc := lookupArray(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	rank := arrType.Rank()
	if !isPermutation(x.Perm, rank) {
		return nil, nil, PermutationError{Perm: x.Perm, Rank: rank, Arr: x.Arr}
	}
	_, occ, errc := Observe(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	newShape := make(ir.Shape, rank)
	for i, p := range x.Perm {
		newShape[i] = arrType.Shape[p]
	}
	return []ir.Type{ir.Array(arrType.Elem, newShape, arrType.Unique)}, occ, nil
}

func isPermutation(perm []int, rank int) bool {
	if len(perm) != rank {
		return false
	}
	seen := make([]bool, rank)
	for _, p := range perm {
		if p < 0 || p >= rank || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

// checkSplit checks Split. Per spec §9/DESIGN.md's documented Open
// Question decision, it deliberately does NOT verify that Sizes sum to
// Arr's outer dimension — that invariant is preserved as checked
// elsewhere in the pipeline, matching the source's behavior.
func checkSplit(env *Env, x ir.Split) ([]ir.Type, Occurrences, ErrorCase) {
	arrType, errc := lookupArray(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	if len(x.Sizes) == 0 {
		return nil, nil, GenericTypeError{Msg: "split requires at least one size"}
	}
	_, occ, errc := Observe(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	next := 0
	inner := arrType.Shape[1:]
	results := make([]ir.Type, len(x.Sizes))
	for i, size := range x.Sizes {
		t, o, errc := ObserveSubExp(env, size)
		if errc != nil {
			return nil, nil, errc
		}
		if errc := Require("split size", t, ir.Prim(ir.I64)); errc != nil {
			return nil, nil, errc
		}
		occ, errc = Seq(occ, o)
		if errc != nil {
			return nil, nil, errc
		}
		shape := append(ir.Shape{subExpToDim(size, &next)}, inner...)
		results[i] = ir.Array(arrType.Elem, shape, ir.Nonunique)
	}
	return results, occ, nil
}

func checkConcat(env *Env, x ir.Concat) ([]ir.Type, Occurrences, ErrorCase) {
	if len(x.Arrs) == 0 {
		return nil, nil, GenericTypeError{Msg: "concat requires at least one array"}
	}
	var occs Occurrences
	var first ir.Type
	for i, name := range x.Arrs {
		t, errc := lookupArray(env, name)
		if errc != nil {
			return nil, nil, errc
		}
		if t.Rank() == 0 {
			return nil, nil, NotAnArray{Vname: name, T: t}
		}
		if i == 0 {
			first = t
		} else {
			if t.Elem != first.Elem || t.Rank() != first.Rank() {
				return nil, nil, GenericTypeError{Msg: "concat: " + name.String() + " has incompatible type " + t.String()}
			}
			for d := 1; d < t.Rank(); d++ {
				if !t.Shape[d].Equal(first.Shape[d]) {
					return nil, nil, GenericTypeError{Msg: "concat: inner shapes of " + name.String() + " and " + x.Arrs[0].String() + " differ"}
				}
			}
		}
		_, o, errc := Observe(env, name)
		if errc != nil {
			return nil, nil, errc
		}
		occs, errc = Seq(occs, o)
		if errc != nil {
			return nil, nil, errc
		}
	}
	shape := append(ir.Shape{ir.ExtDim(0)}, first.Shape[1:]...)
	return []ir.Type{ir.Array(first.Elem, shape, ir.Nonunique)}, occs, nil
}

func checkCopy(env *Env, x ir.Copy) ([]ir.Type, Occurrences, ErrorCase) {
	arrType, errc := lookupArray(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	_, occ, errc := Observe(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	return []ir.Type{ir.Array(arrType.Elem, arrType.Shape, ir.Unique)}, occ, nil
}

func checkAssert(env *Env, x ir.Assert) ([]ir.Type, Occurrences, ErrorCase) {
	t, occ, errc := ObserveSubExp(env, x.Cond)
	if errc != nil {
		return nil, nil, errc
	}
	if errc := Require("assert condition", t, ir.Prim(ir.Bool)); errc != nil {
		return nil, nil, errc
	}
	return []ir.Type{ir.Prim(ir.Cert)}, occ, nil
}

func checkPartition(env *Env, x ir.Partition) ([]ir.Type, Occurrences, ErrorCase) {
	arrType, errc := lookupArray(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	if x.N <= 0 {
		return nil, nil, GenericTypeError{Msg: "partition requires at least one class"}
	}
	eqT, eqOcc, errc := ObserveSubExp(env, x.EqClasses)
	if errc != nil {
		return nil, nil, errc
	}
	if errc := Require("partition equivalence classes", eqT, ir.Array(ir.I32, ir.Shape{arrType.Shape[0]}, ir.Nonunique)); errc != nil {
		return nil, nil, errc
	}
	_, arrOcc, errc := Observe(env, x.Arr)
	if errc != nil {
		return nil, nil, errc
	}
	occs, errc := Seq(eqOcc, arrOcc)
	if errc != nil {
		return nil, nil, errc
	}
	sizes := ir.Array(ir.I32, ir.Shape{ir.ConstDim(int64(x.N))}, ir.Nonunique)
	partitioned := ir.Array(arrType.Elem, arrType.Shape, ir.Nonunique)
	return []ir.Type{sizes, partitioned}, occs, nil
}

func checkIf(env *Env, lore Checkable, x ir.If) ([]ir.Type, Occurrences, ErrorCase) {
	condT, condOcc, errc := ObserveSubExp(env, x.Cond)
	if errc != nil {
		return nil, nil, errc
	}
	if errc := Require("if condition", condT, ir.Prim(ir.Bool)); errc != nil {
		return nil, nil, errc
	}

	thenT, thenOcc, _, errc := CheckBody(env, lore, x.Then)
	if errc != nil {
		return nil, nil, errc
	}
	elseT, elseOcc, _, errc := CheckBody(env, lore, x.Else)
	if errc != nil {
		return nil, nil, errc
	}

	generalized, errc := generalizeTypes(thenT, elseT)
	if errc != nil {
		return nil, nil, errc
	}
	if len(generalized) != len(x.RetType) {
		return nil, nil, GenericTypeError{Msg: "if expression: branch result arity does not match annotation"}
	}
	for i := range generalized {
		if !ir.IsSubtype(generalized[i], x.RetType[i]) {
			return nil, nil, BadAnnotation{Desc: "if expression result", Expected: x.RetType[i], Got: generalized[i]}
		}
	}

	branches := Alt(thenOcc, elseOcc)
	occs, errc := Seq(condOcc, branches)
	if errc != nil {
		return nil, nil, errc
	}
	return x.RetType, occs, nil
}

func checkApply(env *Env, lore Checkable, x ir.Apply) ([]ir.Type, Occurrences, ErrorCase) {
	callee, ok := env.LookupFunc(x.Func)
	if !ok {
		return nil, nil, UnknownFunctionError{Fname: x.Func}
	}
	if len(callee.Params) != len(x.Args) {
		want := make([]ir.Type, len(callee.Params))
		for i, p := range callee.Params {
			want[i] = p.Type
		}
		got := make([]ir.Type, len(x.Args))
		for i, a := range x.Args {
			got[i], _, _ = ObserveSubExp(env, a)
		}
		return nil, nil, ParameterMismatch{Fname: x.Func, Expected: want, Got: got}
	}

	argTypes := make([]ir.Type, len(x.Args))
	var occs Occurrences
	for i, arg := range x.Args {
		param := callee.Params[i]
		var t ir.Type
		var o Occurrences
		var errc ErrorCase
		if arg.IsVar && param.Diet == ir.DietConsume {
			info, e2 := LookupVar(env, arg.Var)
			if e2 != nil {
				return nil, nil, e2
			}
			t = info.Type
			o, errc = ConsumeVar(env, arg.Var)
		} else {
			t, o, errc = ObserveSubExp(env, arg)
		}
		if errc != nil {
			return nil, nil, errc
		}
		argTypes[i] = t
		occs, errc = Seq(occs, o)
		if errc != nil {
			return nil, nil, errc
		}
	}

	// Bind the callee's DimVar shape dimensions from the actual argument
	// shapes before checking each argument's subtype, the same existential
	// binding ApplyRetType performs for return types (spec §3, §4.5):
	// checking against the raw declared type would reject any ordinary
	// shape-polymorphic call whose argument shape doesn't literally equal
	// the declared DimVar.
	bindings, errc := bindDimVars(callee.Params, argTypes)
	if errc != nil {
		return nil, nil, errc
	}
	for i, param := range callee.Params {
		want := substDims(param.Type, bindings)
		if !ir.IsSubtype(argTypes[i], want) {
			return nil, nil, ParameterMismatch{Fname: x.Func, Expected: []ir.Type{want}, Got: []ir.Type{argTypes[i]}}
		}
	}

	derived, errc := ApplyRetType(callee.Params, callee.RetTypes, argTypes)
	if errc != nil {
		return nil, nil, errc
	}
	if len(derived) != len(x.RetType) {
		return nil, nil, GenericTypeError{Msg: "apply " + x.Func.String() + ": result arity does not match annotation"}
	}
	for i := range derived {
		if !ir.IsSubtype(x.RetType[i], derived[i]) {
			return nil, nil, BadAnnotation{Desc: "apply result for " + x.Func.String(), Expected: derived[i], Got: x.RetType[i]}
		}
	}
	return x.RetType, occs, nil
}
