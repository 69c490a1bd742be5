package checker

import (
	"github.com/joshniemela/checkir/pkg/ir"
)

// NameInfoKind tags which flavor of binding a NameInfo describes (spec §3).
type NameInfoKind int

const (
	LetInfoKind NameInfoKind = iota
	FParamInfoKind
	LParamInfoKind
	IndexInfoKind
)

// NameInfo is the per-variable binding recorded in the Env's variable
// table (spec §3's "Name-info binding").
type NameInfo struct {
	Kind NameInfoKind
	Type ir.Type

	// Aliases is meaningful for LetInfoKind: the alias set supplied by
	// the (out-of-scope) alias-annotation pass, expanded against the
	// environment at bind time (spec §4.4).
	Aliases ir.NameSet

	// Diet is meaningful for FParamInfoKind/LParamInfoKind: whether this
	// parameter may legally be consumed.
	Diet ir.Diet

	// Attr carries whatever lore-specific payload the Checkable capability
	// attached to this binding; the core checker never inspects it.
	Attr interface{}
}

// FuncBinding is a function table entry: its declared return types and
// parameter list (spec §3).
type FuncBinding struct {
	RetTypes []ir.Type
	Params   []ir.Param
}

// Env is the checking context: the variable table, function table,
// occurrence-checking toggle and breadcrumb stack (spec §3, §4.2).
//
// Env is mutated and unwound in place rather than copied per scope: every
// scope-entering operation (BindVar, PushBreadcrumb) returns an undo
// closure that the caller defers, exactly mirroring spec §3's lifecycle
// ("extended scope-locally ... discarded on scope exit").
type Env struct {
	vars             map[ir.Name]*NameInfo
	funcs            map[ir.Name]FuncBinding
	CheckOccurrences bool
	breadcrumbs      []string // push appends; most-recently-pushed last
}

// NewEnv creates an empty checking context.
func NewEnv(checkOccurrences bool) *Env {
	return &Env{
		vars:             make(map[ir.Name]*NameInfo),
		funcs:            make(map[ir.Name]FuncBinding),
		CheckOccurrences: checkOccurrences,
	}
}

// Lookup returns the binding for name, if any.
func (e *Env) Lookup(name ir.Name) (NameInfo, bool) {
	info, ok := e.vars[name]
	if !ok {
		return NameInfo{}, false
	}
	return *info, true
}

// LookupFunc returns the function table entry for name, if any.
func (e *Env) LookupFunc(name ir.Name) (FuncBinding, bool) {
	b, ok := e.funcs[name]
	return b, ok
}

// SeedFuncs copies every entry of funcs into e's function table, used once
// per program check to share one fully-populated table (built-ins plus
// every user function) across each function's otherwise-fresh Env (spec
// §4.8 steps 2-4).
func (e *Env) SeedFuncs(funcs map[ir.Name]FuncBinding) {
	for n, b := range funcs {
		e.funcs[n] = b
	}
}

// BindFunc inserts a function declaration, rejecting duplicates (spec
// §4.8 step 3, §3 invariant 1).
func (e *Env) BindFunc(name ir.Name, b FuncBinding) error {
	if _, exists := e.funcs[name]; exists {
		return &TypeError{Case: DupDefinitionError{Fname: name}}
	}
	e.funcs[name] = b
	return nil
}

// BindVar binds name for the duration of the caller's scope and returns
// an undo closure the caller must defer. It expands info.Aliases against
// the current environment and symmetrizes the alias relation: every
// already-bound name now aliased by `name` has `name` added to its own
// alias set (spec §4.4's "On let x = e in body").
func (e *Env) BindVar(name ir.Name, info NameInfo) func() {
	if info.Kind == LetInfoKind && !info.Aliases.IsEmpty() {
		info.Aliases = e.ExpandAliases(info.Aliases)
	}
	e.vars[name] = &info

	var symmetrized []ir.Name
	for alias := range info.Aliases {
		if other, ok := e.vars[alias]; ok && alias != name {
			other.Aliases = other.Aliases.Union(ir.NewNameSet(name))
			symmetrized = append(symmetrized, alias)
		}
	}

	return func() {
		for _, alias := range symmetrized {
			if other, ok := e.vars[alias]; ok {
				other.Aliases = other.Aliases.Minus(ir.NewNameSet(name))
			}
		}
		delete(e.vars, name)
	}
}

// BindVars binds a whole pattern's worth of names in order, returning a
// single undo closure that reverses all of them (spec §3 invariant 1:
// each scope's bindings are independent; later names in the same pattern
// can alias earlier ones, matching left-to-right symmetrization).
func (e *Env) BindVars(names []ir.Name, infos []NameInfo) func() {
	undos := make([]func(), len(names))
	for i, n := range names {
		undos[i] = e.BindVar(n, infos[i])
	}
	return func() {
		for i := len(undos) - 1; i >= 0; i-- {
			undos[i]()
		}
	}
}

// ExpandAliases unions names with the alias sets of each of its members,
// one level; because every insertion already symmetrizes and expands, one
// level of expansion here is sufficient to reach the full transitive
// closure (spec §4.4, invariant 3, testable property 7).
func (e *Env) ExpandAliases(names ir.NameSet) ir.NameSet {
	out := ir.NewNameSet()
	for n := range names {
		out.Add(n)
		if info, ok := e.vars[n]; ok {
			out = out.Union(info.Aliases)
		}
	}
	return out
}

// PushBreadcrumb pushes label and returns a pop closure the caller must
// defer (spec §4.2: "every successful return pops its label").
func (e *Env) PushBreadcrumb(label string) func() {
	e.breadcrumbs = append(e.breadcrumbs, label)
	n := len(e.breadcrumbs)
	return func() {
		e.breadcrumbs = e.breadcrumbs[:n-1]
	}
}

// Breadcrumbs returns a snapshot of the current stack, outermost first,
// matching the rendering order (spec §4.1: "a snapshot (reverse copy)").
func (e *Env) Breadcrumbs() []string {
	out := make([]string, len(e.breadcrumbs))
	copy(out, e.breadcrumbs)
	return out
}

// Context runs action with label pushed onto the breadcrumb stack, always
// popping it before returning (spec §4.2's `context(label, action)`).
func Context[T any](e *Env, label string, action func() (T, error)) (T, error) {
	pop := e.PushBreadcrumb(label)
	defer pop()
	return action()
}

// Bad constructs a TypeError from c with the environment's current
// breadcrumb snapshot attached (spec §4.2's `bad(errorCase)`).
func Bad(e *Env, c ErrorCase) error {
	return &TypeError{Breadcrumbs: e.Breadcrumbs(), Case: c}
}
