package ir

// SubExp is a fully-reduced sub-expression: a variable reference or a
// scalar literal. Spec §4.5: "a literal yields its primitive type; a
// variable reference observes the variable and returns its looked up
// type."
type SubExp struct {
	IsVar bool
	Var   Name
	Kind  PrimKind    // literal's primitive kind, when !IsVar
	Value interface{} // literal value, when !IsVar
}

func Var(n Name) SubExp { return SubExp{IsVar: true, Var: n} }

func Const(k PrimKind, v interface{}) SubExp {
	return SubExp{IsVar: false, Kind: k, Value: v}
}

// Expr is any IR expression form the checker knows how to verify. It is
// implemented by every node type in this file; checkexp.go dispatches on
// the concrete type with a type switch, mirroring the teacher's AST
// dispatch over go/ast.Node.
type Expr interface {
	exprNode()
}

// --- leaf / scalar forms -----------------------------------------------

// SubExpExpr wraps a SubExp so it can stand as the right-hand side of a
// let-binding on its own (e.g. `let y = x`).
type SubExpExpr struct{ SubExp SubExp }

func (SubExpExpr) exprNode() {}

// BinOp applies a named binary numeric operator to two operands of the
// same declared primitive kind.
type BinOp struct {
	Op          string
	X, Y        SubExp
	OperandType PrimKind
}

func (BinOp) exprNode() {}

// UnOp applies a named unary operator.
type UnOp struct {
	Op          string
	X           SubExp
	OperandType PrimKind
}

func (UnOp) exprNode() {}

// CmpOp compares two operands, yielding a Bool.
type CmpOp struct {
	Op          string
	X, Y        SubExp
	OperandType PrimKind
}

func (CmpOp) exprNode() {}

// ConvOp converts a scalar from one primitive kind to another.
type ConvOp struct {
	X        SubExp
	From, To PrimKind
}

func (ConvOp) exprNode() {}

// --- array constructors --------------------------------------------------

// ArrayLit builds a 1-D array literal; every element must match ElemType.
type ArrayLit struct {
	Elems    []SubExp
	ElemType PrimKind
}

func (ArrayLit) exprNode() {}

// Index indexes into an array by one SubExp per dimension indexed (which
// may be fewer than the array's rank, producing a lower-rank slice), plus
// an optional bounds-check certificate.
type Index struct {
	Arr     Name
	Indices []SubExp
	Cert    *SubExp // must be Cert-typed when present
}

func (Index) exprNode() {}

// Iota produces a 1-D array [0, N).
type Iota struct {
	N        SubExp
	ElemType PrimKind
}

func (Iota) exprNode() {}

// Replicate prepends Shape to Value's shape, broadcasting Value.
type Replicate struct {
	Shape Shape
	Value SubExp
}

func (Replicate) exprNode() {}

// Scratch allocates an uninitialized array of the given shape.
type Scratch struct {
	ElemType PrimKind
	Shape    Shape
}

func (Scratch) exprNode() {}

// Reshape reinterprets Arr under NewShape.
type Reshape struct {
	NewShape Shape
	Arr      Name
}

func (Reshape) exprNode() {}

// Rearrange permutes Arr's dimensions according to Perm, which must be a
// permutation of [0, rank).
type Rearrange struct {
	Perm []int
	Arr  Name
}

func (Rearrange) exprNode() {}

// Split divides Arr along its outer dimension into len(Sizes) pieces.
// Per spec §9/DESIGN.md, the checker does not verify that Sizes sum to
// Arr's outer dimension — that invariant is checked elsewhere in the
// pipeline, and deliberately not re-derived here.
type Split struct {
	Sizes []SubExp
	Arr   Name
}

func (Split) exprNode() {}

// Concat joins Arrs along the outer dimension; all but the outermost
// dimension must match across every array (spec §4.5).
type Concat struct {
	Arrs []Name
}

func (Concat) exprNode() {}

// Copy makes a fresh, unaliased copy of Arr.
type Copy struct {
	Arr Name
}

func (Copy) exprNode() {}

// Assert checks Cond at runtime, producing a certificate token.
type Assert struct {
	Cond SubExp
	Msg  string
}

func (Assert) exprNode() {}

// Partition buckets Arr's elements into N classes according to EqClasses
// (a same-length i32 array of class indices).
type Partition struct {
	N         int
	Arr       Name
	EqClasses SubExp
}

func (Partition) exprNode() {}

// --- control flow ---------------------------------------------------------

// If branches on Cond; the two branches compose under `alt` (spec §4.3,
// §4.5). RetType is the annotated result ext-type list the generalized
// branch types must be a subtype of.
type If struct {
	Cond    SubExp
	Then    *Body
	Else    *Body
	RetType []ExtType
}

func (If) exprNode() {}

// Apply calls Func with Args; RetType is the annotation this apply claims
// (checked against the type `applyRetType` derives from Args' shapes).
type Apply struct {
	Func    Name
	Args    []SubExp
	RetType []ExtType
}

func (Apply) exprNode() {}

// LoopForm selects between the two DoLoop shapes (spec §4.5).
type LoopForm int

const (
	ForLoop LoopForm = iota
	WhileLoop
)

// MergeParam is one loop-carried variable: its parameter (name, type,
// diet) and its initial value.
type MergeParam struct {
	Param Param
	Init  SubExp
}

// DoLoop is a bounded (For) or conditional (While) loop, checked as an
// anonymous function applied to its merge arguments (spec §4.5).
type DoLoop struct {
	Form LoopForm

	// ForLoop fields.
	LoopVar Name
	Bound   SubExp

	// WhileLoop fields.
	CondName Name

	Merge []MergeParam
	Body  *Body
}

func (DoLoop) exprNode() {}

// Lambda is a SOAC-argument function with fixed, non-existential return
// types (spec §4.7's `checkLambda`).
type Lambda struct {
	Params  []Param
	Body    *Body
	RetType []Type
}

func (Lambda) exprNode() {}

// ExtLambda is a SOAC-argument function whose return types may carry
// existential dimensions (spec §4.7's `checkExtLambda`), e.g. a predicate
// lambda feeding a filter/partition whose result shape is data-dependent.
type ExtLambda struct {
	Params  []Param
	Body    *Body
	RetType []ExtType
}

func (ExtLambda) exprNode() {}

// OpExpr is a backend/lore-specific operator, delegated to the
// `Checkable.CheckOp` hook the IR flavor supplies (spec §4.5 "Op(custom)").
type OpExpr struct {
	OpName string
	Args   []SubExp
	// Payload carries whatever lore-specific data CheckOp needs; the core
	// checker never inspects it.
	Payload interface{}
}

func (OpExpr) exprNode() {}
