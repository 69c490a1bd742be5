package checker

import "github.com/joshniemela/checkir/pkg/ir"

// Occurrence is the pair (observed, consumed) names spec §3 defines. The
// null occurrence (both empty) is never stored in an Occurrences list
// (invariant 5); every constructor and combinator here enforces that by
// dropping nulls before returning.
type Occurrence struct {
	Observed ir.NameSet
	Consumed ir.NameSet
}

// IsNull reports whether o carries no information at all.
func (o Occurrence) IsNull() bool {
	return o.Observed.IsEmpty() && o.Consumed.IsEmpty()
}

// Observes builds an occurrence recording that names were observed (spec
// §4.4's `observe`).
func Observes(names ir.NameSet) Occurrence {
	return Occurrence{Observed: names, Consumed: ir.NewNameSet()}
}

// Consumes builds an occurrence recording that names were consumed (spec
// §4.4's `consume`).
func Consumes(names ir.NameSet) Occurrence {
	return Occurrence{Observed: ir.NewNameSet(), Consumed: names}
}

// Occurrences is an ordered sequence of occurrences in left-to-right
// control order (spec §3's "Occurrence list"). The empty list is the
// monoid identity.
type Occurrences []Occurrence

// Single builds a one-element Occurrences list, dropping it entirely if o
// is null.
func Single(o Occurrence) Occurrences {
	if o.IsNull() {
		return nil
	}
	return Occurrences{o}
}

// consumedUnion unions the Consumed field across every occurrence in l.
func consumedUnion(l Occurrences) ir.NameSet {
	out := ir.NewNameSet()
	for _, o := range l {
		out = out.Union(o.Consumed)
	}
	return out
}

// referencedIn reports whether name is observed or consumed anywhere in l.
func referencedIn(l Occurrences, name ir.Name) bool {
	for _, o := range l {
		if o.Observed.Has(name) || o.Consumed.Has(name) {
			return true
		}
	}
	return false
}

func dropNulls(l Occurrences) Occurrences {
	out := make(Occurrences, 0, len(l))
	for _, o := range l {
		if !o.IsNull() {
			out = append(out, o)
		}
	}
	return out
}

// Seq is the consumption log's `combine` operator (spec §4.3). It
// composes a followed by b in sequence: any name a consumed that is later
// referenced (observed or consumed) in b is a use-after-consume error;
// otherwise a's observations of names b goes on to consume are dropped
// (those observations are redundant, spec §4.3), and the lists are
// concatenated.
func Seq(a, b Occurrences) (Occurrences, ErrorCase) {
	consumedInA := consumedUnion(a)
	for name := range consumedInA {
		if referencedIn(b, name) {
			return nil, UseAfterConsume{Vname: name}
		}
	}

	consumedInB := consumedUnion(b)
	out := make(Occurrences, 0, len(a)+len(b))
	for _, o := range a {
		oo := Occurrence{
			Observed: o.Observed.Minus(consumedInB),
			Consumed: o.Consumed,
		}
		if !oo.IsNull() {
			out = append(out, oo)
		}
	}
	out = append(out, dropNulls(b)...)
	return out, nil
}

// SeqAll folds Seq left to right over lists, short-circuiting on the
// first error (Seq is associative, spec §8 property 4, so the fold order
// within a single call does not matter beyond left-to-right source order).
func SeqAll(lists ...Occurrences) (Occurrences, ErrorCase) {
	var acc Occurrences
	for _, l := range lists {
		next, err := Seq(acc, l)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// Alt composes a and b as alternatives (spec §4.3): taking branch a or
// branch b leaves either side's consumptions visible afterward, but an
// observation from one arm does not survive if the other arm consumed
// that name. Unlike Seq, Alt never errors — a use observed in one branch
// and consumed in the other is exactly what "alternative" means.
func Alt(a, b Occurrences) Occurrences {
	consumedInB := consumedUnion(b)
	out := make(Occurrences, 0, len(a)+len(b))
	for _, o := range a {
		oo := Occurrence{
			Observed: o.Observed.Minus(consumedInB),
			Consumed: o.Consumed.Minus(consumedInB),
		}
		if !oo.IsNull() {
			out = append(out, oo)
		}
	}
	out = append(out, dropNulls(b)...)
	return out
}

// Unoccur removes names from both fields of every occurrence in list,
// used when those names go out of scope at the end of a let-body (spec
// §4.3's `unoccur`).
func Unoccur(names ir.NameSet, list Occurrences) Occurrences {
	out := make(Occurrences, 0, len(list))
	for _, o := range list {
		oo := Occurrence{
			Observed: o.Observed.Minus(names),
			Consumed: o.Consumed.Minus(names),
		}
		if !oo.IsNull() {
			out = append(out, oo)
		}
	}
	return out
}

// AllConsumed unions the Consumed field across the whole list.
func AllConsumed(l Occurrences) ir.NameSet {
	return consumedUnion(l)
}

// AllObserved unions the Observed field across the whole list.
func AllObserved(l Occurrences) ir.NameSet {
	out := ir.NewNameSet()
	for _, o := range l {
		out = out.Union(o.Observed)
	}
	return out
}
