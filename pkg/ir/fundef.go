package ir

// Stm is one let-binding: `let Pattern = Exp`.
type Stm struct {
	Pattern Pattern
	Exp     Expr
}

// Body is a function/lambda/loop body: a sequence of let-bindings in
// source order followed by a result (spec §3 "Occurrence list").
type Body struct {
	Stms   []Stm
	Result []SubExp
}

// FunDef is one top-level function declaration.
type FunDef struct {
	Name     Name
	RetTypes []Type
	Params   []Param
	Body     *Body
}

// Program is a whole, already-parsed program: a flat list of function
// declarations (spec §4.8).
type Program struct {
	Funs []*FunDef
}
