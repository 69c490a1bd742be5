package prog

import (
	"fmt"

	"github.com/joshniemela/checkir/pkg/ir"
)

func decodeNamespace(s string) (ir.Namespace, error) {
	switch s {
	case "var", "":
		return ir.VarNamespace, nil
	case "func":
		return ir.FuncNamespace, nil
	default:
		return 0, fmt.Errorf("unknown name namespace %q", s)
	}
}

func decodeName(w wireName) (ir.Name, error) {
	ns, err := decodeNamespace(w.Namespace)
	if err != nil {
		return ir.Name{}, err
	}
	return ir.Name{Namespace: ns, Text: w.Text, Tag: w.Tag}, nil
}

func decodeNames(ws []wireName) ([]ir.Name, error) {
	out := make([]ir.Name, len(ws))
	for i, w := range ws {
		n, err := decodeName(w)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

var primByName = map[string]ir.PrimKind{
	"bool": ir.Bool,
	"i8":   ir.I8, "i16": ir.I16, "i32": ir.I32, "i64": ir.I64,
	"u8": ir.U8, "u16": ir.U16, "u32": ir.U32, "u64": ir.U64,
	"f32": ir.F32, "f64": ir.F64,
	"cert": ir.Cert,
}

func decodePrim(s string) (ir.PrimKind, error) {
	p, ok := primByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown primitive kind %q", s)
	}
	return p, nil
}

func decodeDiet(s string) (ir.Diet, error) {
	switch s {
	case "observe", "":
		return ir.DietObserve, nil
	case "consume":
		return ir.DietConsume, nil
	default:
		return 0, fmt.Errorf("unknown diet %q", s)
	}
}

func decodeDim(w wireDim) (ir.Dim, error) {
	switch w.Kind {
	case "const":
		return ir.ConstDim(w.Const), nil
	case "var":
		n, err := decodeName(w.Var)
		if err != nil {
			return ir.Dim{}, err
		}
		return ir.VarDim(n), nil
	case "ext":
		return ir.ExtDim(w.Ext), nil
	default:
		return ir.Dim{}, fmt.Errorf("unknown dimension kind %q", w.Kind)
	}
}

func decodeShape(ws []wireDim) (ir.Shape, error) {
	out := make(ir.Shape, len(ws))
	for i, w := range ws {
		d, err := decodeDim(w)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func decodeType(w wireType) (ir.Type, error) {
	elem, err := decodePrim(w.Elem)
	if err != nil {
		return ir.Type{}, err
	}
	if !w.IsArray {
		return ir.Prim(elem), nil
	}
	shape, err := decodeShape(w.Shape)
	if err != nil {
		return ir.Type{}, err
	}
	u := ir.Nonunique
	if w.Unique {
		u = ir.Unique
	}
	return ir.Array(elem, shape, u), nil
}

func decodeTypes(ws []wireType) ([]ir.Type, error) {
	out := make([]ir.Type, len(ws))
	for i, w := range ws {
		t, err := decodeType(w)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func decodeSubExp(w wireSubExp) (ir.SubExp, error) {
	if w.IsVar {
		n, err := decodeName(w.Var)
		if err != nil {
			return ir.SubExp{}, err
		}
		return ir.Var(n), nil
	}
	k, err := decodePrim(w.Kind)
	if err != nil {
		return ir.SubExp{}, err
	}
	return ir.Const(k, w.Value), nil
}

func decodeSubExps(ws []wireSubExp) ([]ir.SubExp, error) {
	out := make([]ir.SubExp, len(ws))
	for i, w := range ws {
		se, err := decodeSubExp(w)
		if err != nil {
			return nil, err
		}
		out[i] = se
	}
	return out, nil
}

func decodePattern(ws []wirePatElem) (ir.Pattern, error) {
	out := make(ir.Pattern, len(ws))
	for i, w := range ws {
		name, err := decodeName(w.Name)
		if err != nil {
			return nil, err
		}
		typ, err := decodeType(w.Type)
		if err != nil {
			return nil, err
		}
		var aliases ir.NameSet
		if len(w.Aliases) > 0 {
			names, err := decodeNames(w.Aliases)
			if err != nil {
				return nil, err
			}
			aliases = ir.NewNameSet(names...)
		}
		out[i] = ir.PatElem{Name: name, Type: typ, Aliases: aliases}
	}
	return out, nil
}

func decodeParam(w wireParam) (ir.Param, error) {
	name, err := decodeName(w.Name)
	if err != nil {
		return ir.Param{}, err
	}
	typ, err := decodeType(w.Type)
	if err != nil {
		return ir.Param{}, err
	}
	diet, err := decodeDiet(w.Diet)
	if err != nil {
		return ir.Param{}, err
	}
	return ir.Param{Name: name, Type: typ, Diet: diet}, nil
}

func decodeParams(ws []wireParam) ([]ir.Param, error) {
	out := make([]ir.Param, len(ws))
	for i, w := range ws {
		p, err := decodeParam(w)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func decodeBody(w *wireBody) (*ir.Body, error) {
	if w == nil {
		return nil, fmt.Errorf("missing body")
	}
	stms := make([]ir.Stm, len(w.Stms))
	for i, s := range w.Stms {
		pat, err := decodePattern(s.Pattern)
		if err != nil {
			return nil, err
		}
		exp, err := decodeExpr(s.Exp)
		if err != nil {
			return nil, err
		}
		stms[i] = ir.Stm{Pattern: pat, Exp: exp}
	}
	result, err := decodeSubExps(w.Result)
	if err != nil {
		return nil, err
	}
	return &ir.Body{Stms: stms, Result: result}, nil
}

func decodeMerge(ws []wireMergeParam) ([]ir.MergeParam, error) {
	out := make([]ir.MergeParam, len(ws))
	for i, w := range ws {
		p, err := decodeParam(w.Param)
		if err != nil {
			return nil, err
		}
		init, err := decodeSubExp(w.Init)
		if err != nil {
			return nil, err
		}
		out[i] = ir.MergeParam{Param: p, Init: init}
	}
	return out, nil
}

// decodeExpr dispatches on wireExpr.Kind, the wire-format analog of
// checkexp.go's type switch over ir.Expr.
func decodeExpr(w wireExpr) (ir.Expr, error) {
	switch w.Kind {
	case "sub_exp":
		se, err := decodeSubExp(*w.SubExp)
		if err != nil {
			return nil, err
		}
		return ir.SubExpExpr{SubExp: se}, nil

	case "bin_op", "un_op", "cmp_op", "conv_op":
		return decodeOpExpr(w)

	case "array_lit":
		elems, err := decodeSubExps(w.Elems)
		if err != nil {
			return nil, err
		}
		elemType, err := decodePrim(w.ElemType)
		if err != nil {
			return nil, err
		}
		return ir.ArrayLit{Elems: elems, ElemType: elemType}, nil

	case "index":
		arr, err := decodeName(w.Arr)
		if err != nil {
			return nil, err
		}
		indices, err := decodeSubExps(w.Indices)
		if err != nil {
			return nil, err
		}
		var cert *ir.SubExp
		if w.Cert != nil {
			c, err := decodeSubExp(*w.Cert)
			if err != nil {
				return nil, err
			}
			cert = &c
		}
		return ir.Index{Arr: arr, Indices: indices, Cert: cert}, nil

	case "iota":
		n, err := decodeSubExp(*w.N)
		if err != nil {
			return nil, err
		}
		elemType, err := decodePrim(w.ElemType)
		if err != nil {
			return nil, err
		}
		return ir.Iota{N: n, ElemType: elemType}, nil

	case "replicate":
		shape, err := decodeShape(w.Shape)
		if err != nil {
			return nil, err
		}
		val, err := decodeSubExp(*w.Value)
		if err != nil {
			return nil, err
		}
		return ir.Replicate{Shape: shape, Value: val}, nil

	case "scratch":
		elemType, err := decodePrim(w.ElemType)
		if err != nil {
			return nil, err
		}
		shape, err := decodeShape(w.Shape)
		if err != nil {
			return nil, err
		}
		return ir.Scratch{ElemType: elemType, Shape: shape}, nil

	case "reshape":
		shape, err := decodeShape(w.NewShape)
		if err != nil {
			return nil, err
		}
		arr, err := decodeName(w.Arr)
		if err != nil {
			return nil, err
		}
		return ir.Reshape{NewShape: shape, Arr: arr}, nil

	case "rearrange":
		arr, err := decodeName(w.Arr)
		if err != nil {
			return nil, err
		}
		return ir.Rearrange{Perm: w.Perm, Arr: arr}, nil

	case "split":
		sizes, err := decodeSubExps(w.Sizes)
		if err != nil {
			return nil, err
		}
		arr, err := decodeName(w.Arr)
		if err != nil {
			return nil, err
		}
		return ir.Split{Sizes: sizes, Arr: arr}, nil

	case "concat":
		arrs, err := decodeNames(w.Arrs)
		if err != nil {
			return nil, err
		}
		return ir.Concat{Arrs: arrs}, nil

	case "copy":
		arr, err := decodeName(w.Arr)
		if err != nil {
			return nil, err
		}
		return ir.Copy{Arr: arr}, nil

	case "assert":
		cond, err := decodeSubExp(*w.Cond)
		if err != nil {
			return nil, err
		}
		return ir.Assert{Cond: cond, Msg: w.Msg}, nil

	case "partition":
		arr, err := decodeName(w.Arr)
		if err != nil {
			return nil, err
		}
		eq, err := decodeSubExp(*w.EqClasses)
		if err != nil {
			return nil, err
		}
		return ir.Partition{N: w.NClasses, Arr: arr, EqClasses: eq}, nil

	case "if":
		cond, err := decodeSubExp(*w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeBody(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeBody(w.Else)
		if err != nil {
			return nil, err
		}
		retType, err := decodeTypes(w.RetType)
		if err != nil {
			return nil, err
		}
		return ir.If{Cond: cond, Then: then, Else: els, RetType: retType}, nil

	case "apply":
		fn, err := decodeName(w.Func)
		if err != nil {
			return nil, err
		}
		args, err := decodeSubExps(w.Args)
		if err != nil {
			return nil, err
		}
		retType, err := decodeTypes(w.RetType)
		if err != nil {
			return nil, err
		}
		return ir.Apply{Func: fn, Args: args, RetType: retType}, nil

	case "do_loop":
		return decodeDoLoop(w)

	case "lambda":
		params, err := decodeParams(w.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeBody(w.Body)
		if err != nil {
			return nil, err
		}
		retType, err := decodeTypes(w.RetType)
		if err != nil {
			return nil, err
		}
		return ir.Lambda{Params: params, Body: body, RetType: retType}, nil

	case "ext_lambda":
		params, err := decodeParams(w.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeBody(w.Body)
		if err != nil {
			return nil, err
		}
		retType, err := decodeTypes(w.RetType)
		if err != nil {
			return nil, err
		}
		return ir.ExtLambda{Params: params, Body: body, RetType: retType}, nil

	case "op":
		args, err := decodeSubExps(w.Args)
		if err != nil {
			return nil, err
		}
		return ir.OpExpr{OpName: w.OpName, Args: args, Payload: w.Raw}, nil

	default:
		return nil, fmt.Errorf("unknown expression kind %q", w.Kind)
	}
}

func decodeOpExpr(w wireExpr) (ir.Expr, error) {
	operandType, err := decodePrim(w.OperandType)
	if err != nil {
		return nil, err
	}
	switch w.Kind {
	case "bin_op":
		x, err := decodeSubExp(*w.X)
		if err != nil {
			return nil, err
		}
		y, err := decodeSubExp(*w.Y)
		if err != nil {
			return nil, err
		}
		return ir.BinOp{Op: w.Op, X: x, Y: y, OperandType: operandType}, nil
	case "cmp_op":
		x, err := decodeSubExp(*w.X)
		if err != nil {
			return nil, err
		}
		y, err := decodeSubExp(*w.Y)
		if err != nil {
			return nil, err
		}
		return ir.CmpOp{Op: w.Op, X: x, Y: y, OperandType: operandType}, nil
	case "un_op":
		x, err := decodeSubExp(*w.X)
		if err != nil {
			return nil, err
		}
		return ir.UnOp{Op: w.Op, X: x, OperandType: operandType}, nil
	case "conv_op":
		x, err := decodeSubExp(*w.X)
		if err != nil {
			return nil, err
		}
		from, err := decodePrim(w.From)
		if err != nil {
			return nil, err
		}
		to, err := decodePrim(w.To)
		if err != nil {
			return nil, err
		}
		return ir.ConvOp{X: x, From: from, To: to}, nil
	default:
		return nil, fmt.Errorf("unreachable op kind %q", w.Kind)
	}
}

func decodeDoLoop(w wireExpr) (ir.Expr, error) {
	merge, err := decodeMerge(w.Merge)
	if err != nil {
		return nil, err
	}
	body, err := decodeBody(w.Body)
	if err != nil {
		return nil, err
	}
	switch w.Form {
	case "for":
		loopVar, err := decodeName(w.LoopVar)
		if err != nil {
			return nil, err
		}
		bound, err := decodeSubExp(*w.Bound)
		if err != nil {
			return nil, err
		}
		return ir.DoLoop{Form: ir.ForLoop, LoopVar: loopVar, Bound: bound, Merge: merge, Body: body}, nil
	case "while":
		condName, err := decodeName(w.Cond2)
		if err != nil {
			return nil, err
		}
		return ir.DoLoop{Form: ir.WhileLoop, CondName: condName, Merge: merge, Body: body}, nil
	default:
		return nil, fmt.Errorf("unknown loop form %q", w.Form)
	}
}

func decodeFunDef(w wireFunDef) (*ir.FunDef, error) {
	name, err := decodeName(w.Name)
	if err != nil {
		return nil, err
	}
	retTypes, err := decodeTypes(w.RetTypes)
	if err != nil {
		return nil, err
	}
	params, err := decodeParams(w.Params)
	if err != nil {
		return nil, err
	}
	body, err := decodeBody(&w.Body)
	if err != nil {
		return nil, err
	}
	return &ir.FunDef{Name: name, RetTypes: retTypes, Params: params, Body: body}, nil
}

// decodeProgram converts a fully-parsed wire document into an *ir.Program.
func decodeProgram(w wireProgram) (*ir.Program, error) {
	funs := make([]*ir.FunDef, len(w.Funs))
	for i, wf := range w.Funs {
		fn, err := decodeFunDef(wf)
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		funs[i] = fn
	}
	return &ir.Program{Funs: funs}, nil
}
