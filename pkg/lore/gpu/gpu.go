// Package gpu implements an IR flavor ("lore") that extends the core
// checker with two custom operators aimed at GPU-style bulk-parallel
// execution: SegMap (an elementwise map over one or more input arrays)
// and SegRed (a per-segment associative reduction). It demonstrates that
// checker.Checkable is a real, exercised extension point and not just a
// single hard-coded implementation.
package gpu

import (
	"github.com/joshniemela/checkir/pkg/checker"
	"github.com/joshniemela/checkir/pkg/ir"
)

// SegMapPayload is the OpExpr.Payload for a "seg_map" operator: apply Fun
// elementwise across the arrays named in OpExpr.Args, each of which must
// share OutShape's outer dimension.
type SegMapPayload struct {
	Fun      ir.Lambda
	OutShape ir.Shape
}

// SegRedPayload is the OpExpr.Payload for a "seg_red" operator: reduce
// OpExpr.Args[0]'s outer dimension with the associative binary Op,
// starting from Neutral.
type SegRedPayload struct {
	Op      ir.Lambda
	Neutral ir.SubExp
}

// Lore adds seg_map/seg_red to the core checker's capability surface; every
// other hook falls back to checker.BaseCheckable's defaults.
type Lore struct {
	checker.BaseCheckable
}

// New constructs the GPU lore.
func New() *Lore {
	return &Lore{BaseCheckable: checker.BaseCheckable{LoreName: "gpu"}}
}

func (l *Lore) CheckOp(env *checker.Env, op ir.OpExpr) ([]ir.Type, checker.Occurrences, checker.ErrorCase) {
	switch op.OpName {
	case "seg_map":
		payload, ok := op.Payload.(SegMapPayload)
		if !ok {
			return nil, nil, checker.GenericTypeError{Msg: "seg_map: malformed payload"}
		}
		return l.checkSegMap(env, op.Args, payload)
	case "seg_red":
		payload, ok := op.Payload.(SegRedPayload)
		if !ok {
			return nil, nil, checker.GenericTypeError{Msg: "seg_red: malformed payload"}
		}
		return l.checkSegRed(env, op.Args, payload)
	default:
		return nil, nil, checker.GenericTypeError{Msg: "operator " + op.OpName + " is not supported by the gpu lore"}
	}
}

func (l *Lore) checkSegMap(env *checker.Env, args []ir.SubExp, payload SegMapPayload) ([]ir.Type, checker.Occurrences, checker.ErrorCase) {
	if len(args) != len(payload.Fun.Params) {
		return nil, nil, checker.ParameterMismatch{
			Fname:    ir.NewName(ir.FuncNamespace, "seg_map"),
			Expected: paramTypes(payload.Fun.Params),
			Got:      observeAll(env, args),
		}
	}

	var occs checker.Occurrences
	for i, arg := range args {
		t, o, errc := checker.ObserveSubExp(env, arg)
		if errc != nil {
			return nil, nil, errc
		}
		if !t.IsArray {
			return nil, nil, checker.GenericTypeError{Msg: "seg_map: argument is not an array"}
		}
		if t.Rank() == 0 || len(payload.OutShape) == 0 || !t.Shape[0].Equal(payload.OutShape[0]) {
			return nil, nil, checker.GenericTypeError{Msg: "seg_map: argument's outer dimension does not match the output shape"}
		}
		if errc := checker.Require("seg_map argument element", ir.Prim(t.Elem), payload.Fun.Params[i].Type); errc != nil {
			return nil, nil, errc
		}
		next, errc := checker.Seq(occs, o)
		if errc != nil {
			return nil, nil, errc
		}
		occs = next
	}

	funTypes, funOccs, errc := checker.CheckExp(env, l, payload.Fun)
	if errc != nil {
		return nil, nil, errc
	}
	merged, errc := checker.Seq(occs, funOccs)
	if errc != nil {
		return nil, nil, errc
	}

	results := make([]ir.Type, len(funTypes))
	for i, t := range funTypes {
		results[i] = ir.Array(t.Elem, payload.OutShape, ir.Nonunique)
	}
	return results, merged, nil
}

func (l *Lore) checkSegRed(env *checker.Env, args []ir.SubExp, payload SegRedPayload) ([]ir.Type, checker.Occurrences, checker.ErrorCase) {
	if len(args) != 1 {
		return nil, nil, checker.GenericTypeError{Msg: "seg_red takes exactly one input array"}
	}
	inT, inOcc, errc := checker.ObserveSubExp(env, args[0])
	if errc != nil {
		return nil, nil, errc
	}
	if !inT.IsArray || inT.Rank() == 0 {
		return nil, nil, checker.GenericTypeError{Msg: "seg_red: input must be a non-scalar array"}
	}

	if len(payload.Op.Params) != 2 || len(payload.Op.RetType) != 1 {
		return nil, nil, checker.GenericTypeError{Msg: "seg_red: combining operator must take two operands and return one value"}
	}
	if errc := checker.Require("seg_red operand 0", payload.Op.Params[0].Type, ir.Prim(inT.Elem)); errc != nil {
		return nil, nil, errc
	}
	if errc := checker.Require("seg_red operand 1", payload.Op.Params[1].Type, ir.Prim(inT.Elem)); errc != nil {
		return nil, nil, errc
	}
	if errc := checker.Require("seg_red result", payload.Op.RetType[0], ir.Prim(inT.Elem)); errc != nil {
		return nil, nil, errc
	}

	neutralT, neutralOcc, errc := checker.ObserveSubExp(env, payload.Neutral)
	if errc != nil {
		return nil, nil, errc
	}
	if errc := checker.Require("seg_red neutral element", neutralT, ir.Prim(inT.Elem)); errc != nil {
		return nil, nil, errc
	}

	_, opOccs, errc := checker.CheckExp(env, l, payload.Op)
	if errc != nil {
		return nil, nil, errc
	}

	occs, errc := checker.SeqAll(inOcc, neutralOcc, opOccs)
	if errc != nil {
		return nil, nil, errc
	}

	outShape := inT.Shape[1:]
	if len(outShape) == 0 {
		return []ir.Type{ir.Prim(inT.Elem)}, occs, nil
	}
	return []ir.Type{ir.Array(inT.Elem, outShape, ir.Nonunique)}, occs, nil
}

func paramTypes(params []ir.Param) []ir.Type {
	out := make([]ir.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

func observeAll(env *checker.Env, args []ir.SubExp) []ir.Type {
	out := make([]ir.Type, len(args))
	for i, a := range args {
		t, _, _ := checker.ObserveSubExp(env, a)
		out[i] = t
	}
	return out
}
