// Package core implements the default IR flavor ("lore"): no custom
// operators, no extra per-expression, per-body, per-parameter or
// per-let-binding annotations. It is the baseline every other lore's
// behavior is compared against (see ../gpu for one that adds custom ops).
package core

import (
	"github.com/joshniemela/checkir/pkg/checker"
	"github.com/joshniemela/checkir/pkg/ir"
)

// Lore is the no-frills Checkable: it embeds checker.BaseCheckable for
// every shared default and rejects any custom Op expression outright,
// since this flavor declares none.
type Lore struct {
	checker.BaseCheckable
}

// New constructs the default lore.
func New() *Lore {
	return &Lore{BaseCheckable: checker.BaseCheckable{LoreName: "core"}}
}

func (l *Lore) CheckOp(env *checker.Env, op ir.OpExpr) ([]ir.Type, checker.Occurrences, checker.ErrorCase) {
	return nil, nil, checker.GenericTypeError{Msg: "operator " + op.OpName + " is not supported by the core lore"}
}
