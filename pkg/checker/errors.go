// Package checker implements the type, uniqueness and aliasing checker
// for an alias-annotated array IR (see ../../SPEC_FULL.md). It consumes a
// pkg/ir.Program and either accepts it or returns the first TypeError
// encountered, breadcrumbs attached.
package checker

import (
	"fmt"
	"strings"

	"github.com/joshniemela/checkir/pkg/ir"
)

// ErrorCase is the closed sum of failure modes (spec §7). Every
// implementation is unexported-method-sealed to this package's sibling
// types below; callers type-switch on the concrete case when they need
// more than the canonical rendering.
type ErrorCase interface {
	errorCase()
	// Render produces the case's canonical human-readable form, with no
	// breadcrumbs attached (those are layered on by TypeError.Error).
	Render() string
}

// TypeError pairs an ErrorCase with a breadcrumb trail (spec §4.1, §6).
// CheckFun attaches the trail after the failing check has returned, so it
// holds the enclosing function's label; labels pushed by nested bodies
// have already been popped and are not part of it. Breadcrumbs are stored
// outermost first, matching the rendering order.
type TypeError struct {
	Breadcrumbs []string
	Case        ErrorCase
}

func (e *TypeError) Error() string {
	var b strings.Builder
	for _, crumb := range e.Breadcrumbs {
		b.WriteString(crumb)
		b.WriteString("\n")
	}
	b.WriteString(e.Case.Render())
	return b.String()
}

// --- case payloads ---------------------------------------------------------

type GenericTypeError struct{ Msg string }

func (GenericTypeError) errorCase() {}
func (e GenericTypeError) Render() string { return e.Msg }

type UnifyError struct {
	E1, E2 string // rendered sub-expressions
	T1, T2 ir.Type
}

func (UnifyError) errorCase() {}
func (e UnifyError) Render() string {
	return fmt.Sprintf("cannot unify %s (%s) with %s (%s)", e.E1, e.T1, e.E2, e.T2)
}

// UnexpectedType reports that E has type T but one of Allowed was
// required. Per spec §9, constructing this with an empty Allowed is
// treated as an internal invariant violation ("possibly a bug in the
// type checker") and the core checker never does so deliberately.
type UnexpectedType struct {
	E       string
	T       ir.Type
	Allowed []ir.Type
}

func (UnexpectedType) errorCase() {}
func (e UnexpectedType) Render() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%s has type %s, but no type was allowed here (possibly a bug in the type checker)", e.E, e.T)
	}
	want := make([]string, len(e.Allowed))
	for i, t := range e.Allowed {
		want[i] = t.String()
	}
	return fmt.Sprintf("%s has type %s, expected one of: %s", e.E, e.T, strings.Join(want, ", "))
}

type ReturnTypeError struct {
	Fname            ir.Name
	Declared, Actual []ir.Type
}

func (ReturnTypeError) errorCase() {}
func (e ReturnTypeError) Render() string {
	return fmt.Sprintf("function %s: body has type %s, declared to return %s",
		e.Fname, renderTypes(e.Actual), renderTypes(e.Declared))
}

type DupDefinitionError struct{ Fname ir.Name }

func (DupDefinitionError) errorCase() {}
func (e DupDefinitionError) Render() string {
	return fmt.Sprintf("duplicate definition of function %s", e.Fname)
}

type DupParamError struct {
	Fname, Pname ir.Name
}

func (DupParamError) errorCase() {}
func (e DupParamError) Render() string {
	return fmt.Sprintf("function %s: duplicate parameter %s", e.Fname, e.Pname)
}

type DupPatternError struct{ Vname ir.Name }

func (DupPatternError) errorCase() {}
func (e DupPatternError) Render() string {
	return fmt.Sprintf("pattern binds %s twice", e.Vname)
}

type InvalidPatternError struct {
	Pat  string
	Ts   []ir.Type
	Note string
}

func (InvalidPatternError) errorCase() {}
func (e InvalidPatternError) Render() string {
	msg := fmt.Sprintf("pattern %s does not match type(s) %s", e.Pat, renderTypes(e.Ts))
	if e.Note != "" {
		msg += ": " + e.Note
	}
	return msg
}

type UnknownVariableError struct{ Vname ir.Name }

func (UnknownVariableError) errorCase() {}
func (e UnknownVariableError) Render() string {
	return fmt.Sprintf("unknown variable %s", e.Vname)
}

type UnknownFunctionError struct{ Fname ir.Name }

func (UnknownFunctionError) errorCase() {}
func (e UnknownFunctionError) Render() string {
	return fmt.Sprintf("unknown function %s", e.Fname)
}

type ParameterMismatch struct {
	Fname            ir.Name
	Expected, Got []ir.Type
}

func (ParameterMismatch) errorCase() {}
func (e ParameterMismatch) Render() string {
	return fmt.Sprintf("function %s: expected arguments %s, got %s",
		e.Fname, renderTypes(e.Expected), renderTypes(e.Got))
}

type UseAfterConsume struct{ Vname ir.Name }

func (UseAfterConsume) errorCase() {}
func (e UseAfterConsume) Render() string {
	return fmt.Sprintf("variable %s referenced after being consumed", e.Vname)
}

type IndexingError struct{ Rank, Got int }

func (IndexingError) errorCase() {}
func (e IndexingError) Render() string {
	return fmt.Sprintf("too many indices: array has rank %d, got %d", e.Rank, e.Got)
}

type BadAnnotation struct {
	Desc             string
	Expected, Got ir.Type
}

func (BadAnnotation) errorCase() {}
func (e BadAnnotation) Render() string {
	return fmt.Sprintf("%s: annotation says %s, derived %s", e.Desc, e.Expected, e.Got)
}

type ReturnAliased struct{ Fname, Vname ir.Name }

func (ReturnAliased) errorCase() {}
func (e ReturnAliased) Render() string {
	return fmt.Sprintf("function %s: unique return aliases parameter %s, which is not consumed", e.Fname, e.Vname)
}

type UniqueReturnAliased struct{ Fname ir.Name }

func (UniqueReturnAliased) errorCase() {}
func (e UniqueReturnAliased) Render() string {
	return fmt.Sprintf("function %s: a unique return value aliases another return value", e.Fname)
}

type NotAnArray struct {
	Vname ir.Name
	T     ir.Type
}

func (NotAnArray) errorCase() {}
func (e NotAnArray) Render() string {
	return fmt.Sprintf("%s has type %s, expected an array", e.Vname, e.T)
}

type PermutationError struct {
	Perm []int
	Rank int
	Arr  ir.Name
}

func (PermutationError) errorCase() {}
func (e PermutationError) Render() string {
	return fmt.Sprintf("%v is not a permutation of [0,%d) for array %s", e.Perm, e.Rank, e.Arr)
}

func renderTypes(ts []ir.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
