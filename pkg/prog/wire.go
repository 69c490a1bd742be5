// Package prog discovers and decodes on-disk IR programs (one JSON
// document per build unit) concurrently, the way the teacher's
// pkg/core.Walker discovers and parses source files: a bounded worker
// pool drains a file queue, producing decoded *ir.Program values (or
// errors) on a single result channel.
package prog

// The wire format below is a plain JSON rendering of pkg/ir's node
// shapes. Expr nodes are tagged sum types: a "kind" string selects which
// of the optional fields are populated, mirroring how the checker's own
// Expr interface is a closed set of node structs.

type wireName struct {
	Namespace string `json:"namespace"` // "var" | "func"
	Text      string `json:"text"`
	Tag       int    `json:"tag"`
}

type wireDim struct {
	Kind  string   `json:"kind"` // "const" | "var" | "ext"
	Const int64    `json:"const,omitempty"`
	Var   wireName `json:"var,omitempty"`
	Ext   int      `json:"ext,omitempty"`
}

type wireType struct {
	IsArray bool      `json:"is_array"`
	Elem    string    `json:"elem"`
	Shape   []wireDim `json:"shape,omitempty"`
	Unique  bool      `json:"unique,omitempty"`
}

type wireSubExp struct {
	IsVar bool        `json:"is_var"`
	Var   wireName    `json:"var,omitempty"`
	Kind  string      `json:"kind,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

type wirePatElem struct {
	Name    wireName   `json:"name"`
	Type    wireType   `json:"type"`
	Aliases []wireName `json:"aliases,omitempty"`
}

type wireParam struct {
	Name wireName `json:"name"`
	Type wireType `json:"type"`
	Diet string   `json:"diet"` // "observe" | "consume"
}

type wireStm struct {
	Pattern []wirePatElem `json:"pattern"`
	Exp     wireExpr      `json:"exp"`
}

type wireBody struct {
	Stms   []wireStm    `json:"stms"`
	Result []wireSubExp `json:"result"`
}

type wireMergeParam struct {
	Param wireParam  `json:"param"`
	Init  wireSubExp `json:"init"`
}

// wireExpr is the closed, tagged union of every pkg/ir.Expr node. Only the
// fields relevant to Kind are populated by a well-formed document.
type wireExpr struct {
	Kind string `json:"kind"`

	// sub-expression / scalar ops
	SubExp      *wireSubExp `json:"sub_exp,omitempty"`
	Op          string      `json:"op,omitempty"`
	X           *wireSubExp `json:"x,omitempty"`
	Y           *wireSubExp `json:"y,omitempty"`
	OperandType string      `json:"operand_type,omitempty"`
	From        string      `json:"from,omitempty"`
	To          string      `json:"to,omitempty"`

	// array constructors
	Elems     []wireSubExp `json:"elems,omitempty"`
	ElemType  string       `json:"elem_type,omitempty"`
	Arr       wireName     `json:"arr,omitempty"`
	Arrs      []wireName   `json:"arrs,omitempty"`
	Indices   []wireSubExp `json:"indices,omitempty"`
	Cert      *wireSubExp  `json:"cert,omitempty"`
	N         *wireSubExp  `json:"n,omitempty"`
	Shape     []wireDim    `json:"shape,omitempty"`
	Value     *wireSubExp  `json:"value,omitempty"`
	NewShape  []wireDim    `json:"new_shape,omitempty"`
	Perm      []int        `json:"perm,omitempty"`
	Sizes     []wireSubExp `json:"sizes,omitempty"`
	Cond      *wireSubExp  `json:"cond,omitempty"`
	Msg       string       `json:"msg,omitempty"`
	NClasses  int          `json:"n_classes,omitempty"`
	EqClasses *wireSubExp  `json:"eq_classes,omitempty"`

	// control flow
	Then    *wireBody        `json:"then,omitempty"`
	Else    *wireBody        `json:"else,omitempty"`
	RetType []wireType       `json:"ret_type,omitempty"`
	Func    wireName         `json:"func,omitempty"`
	Args    []wireSubExp     `json:"args,omitempty"`
	Form    string           `json:"form,omitempty"` // "for" | "while"
	LoopVar wireName         `json:"loop_var,omitempty"`
	Bound   *wireSubExp      `json:"bound,omitempty"`
	Cond2   wireName         `json:"cond_name,omitempty"`
	Merge   []wireMergeParam `json:"merge,omitempty"`
	Params  []wireParam      `json:"params,omitempty"`
	Body    *wireBody        `json:"body,omitempty"`

	// lore-specific operator, passed through opaquely
	OpName string      `json:"op_name,omitempty"`
	Raw    interface{} `json:"raw,omitempty"`
}

type wireFunDef struct {
	Name     wireName    `json:"name"`
	RetTypes []wireType  `json:"ret_types"`
	Params   []wireParam `json:"params"`
	Body     wireBody    `json:"body"`
}

type wireProgram struct {
	Funs []wireFunDef `json:"funs"`
}
