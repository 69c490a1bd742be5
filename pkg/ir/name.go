// Package ir defines the node shapes the checker consumes: names, types,
// shapes, patterns, expressions and whole programs. The surface parser and
// the passes that produce these values are out of scope for this module;
// this package only fixes the vocabulary the checker is written against.
package ir

import "fmt"

// Namespace distinguishes the two disjoint identifier spaces a Name can
// occupy. A VarName and a FuncName with the same text never collide.
type Namespace int

const (
	// VarNamespace holds let-bound names, parameters and loop indices.
	VarNamespace Namespace = iota
	// FuncNamespace holds function declarations.
	FuncNamespace
)

// Name is an opaque identifier. Names are compared as plain structs: two
// Names are equal iff their namespace, text and tag all match.
type Name struct {
	Namespace Namespace
	Text      string
	Tag       int // disambiguates shadowed/renamed copies of the same Text
}

// NewName builds a Name with Tag 0.
func NewName(ns Namespace, text string) Name {
	return Name{Namespace: ns, Text: text}
}

// String renders the name for error messages and breadcrumbs.
func (n Name) String() string {
	if n.Tag == 0 {
		return n.Text
	}
	return fmt.Sprintf("%s_%d", n.Text, n.Tag)
}

// NameSet is a set of variable names, used throughout the alias and
// occurrence algebra (spec §3, §4.3, §4.4).
type NameSet map[Name]struct{}

// NewNameSet builds a NameSet from the given names.
func NewNameSet(names ...Name) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether n is a member of s.
func (s NameSet) Has(n Name) bool {
	_, ok := s[n]
	return ok
}

// Add inserts n into s and returns s.
func (s NameSet) Add(n Name) NameSet {
	s[n] = struct{}{}
	return s
}

// Union returns a new set containing every member of s and other.
func (s NameSet) Union(other NameSet) NameSet {
	out := make(NameSet, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Minus returns a new set containing the members of s not in other.
func (s NameSet) Minus(other NameSet) NameSet {
	out := make(NameSet, len(s))
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Intersects reports whether s and other share any member.
func (s NameSet) Intersects(other NameSet) bool {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	for n := range small {
		if big.Has(n) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no members.
func (s NameSet) IsEmpty() bool {
	return len(s) == 0
}

// Slice returns the set's members in no particular order.
func (s NameSet) Slice() []Name {
	out := make([]Name, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	return out
}
