package ir

import (
	"fmt"
	"strings"
)

// PrimKind enumerates the scalar primitive kinds (spec §3).
type PrimKind int

const (
	Bool PrimKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Cert
)

func (p PrimKind) String() string {
	switch p {
	case Bool:
		return "bool"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Cert:
		return "cert"
	default:
		return "?prim"
	}
}

// IsInteger reports whether p is a signed or unsigned integer kind.
func (p PrimKind) IsInteger() bool {
	switch p {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	}
	return false
}

// IsFloat reports whether p is a floating-point kind.
func (p PrimKind) IsFloat() bool {
	return p == F32 || p == F64
}

// IsNumeric reports whether p is integer or float.
func (p PrimKind) IsNumeric() bool {
	return p.IsInteger() || p.IsFloat()
}

// Uniqueness is Unique or Nonunique, attached to declared parameter and
// return types (spec §3).
type Uniqueness int

const (
	Nonunique Uniqueness = iota
	Unique
)

func (u Uniqueness) String() string {
	if u == Unique {
		return "*"
	}
	return ""
}

// Dim is a single dimension of a Shape: either concrete (a constant or a
// variable reference) or existential (bound at a pattern position).
type Dim struct {
	// Kind selects which of the fields below is meaningful.
	Kind DimKind
	// Const is populated when Kind == DimConst.
	Const int64
	// Var is populated when Kind == DimVar.
	Var Name
	// Ext is populated when Kind == DimExt: the existential's index,
	// matching the order in which `Ext i` placeholders appear in a
	// pattern binding (spec §3).
	Ext int
}

type DimKind int

const (
	DimConst DimKind = iota
	DimVar
	DimExt
)

func ConstDim(n int64) Dim   { return Dim{Kind: DimConst, Const: n} }
func VarDim(n Name) Dim      { return Dim{Kind: DimVar, Var: n} }
func ExtDim(i int) Dim       { return Dim{Kind: DimExt, Ext: i} }
func (d Dim) IsExt() bool    { return d.Kind == DimExt }

func (d Dim) String() string {
	switch d.Kind {
	case DimConst:
		return fmt.Sprintf("%d", d.Const)
	case DimVar:
		return d.Var.String()
	case DimExt:
		return fmt.Sprintf("?%d", d.Ext)
	default:
		return "?dim"
	}
}

// Equal reports structural equality of two dimensions. Existentials are
// compared by index: callers that need alpha-equivalence renumber first.
func (d Dim) Equal(o Dim) bool {
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case DimConst:
		return d.Const == o.Const
	case DimVar:
		return d.Var == o.Var
	case DimExt:
		return d.Ext == o.Ext
	}
	return false
}

// Shape is an ordered list of dimensions; its length is the rank.
type Shape []Dim

func (s Shape) Rank() int { return len(s) }

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = "[" + d.String() + "]"
	}
	return strings.Join(parts, "")
}

// HasExt reports whether any dimension of s is existential.
func (s Shape) HasExt() bool {
	for _, d := range s {
		if d.IsExt() {
			return true
		}
	}
	return false
}

// Type is a fully-instantiated type: either a bare primitive or an array
// of primitives over a concrete shape with a uniqueness tag.
type Type struct {
	IsArray bool
	Elem    PrimKind
	Shape   Shape      // only meaningful when IsArray
	Unique  Uniqueness // only meaningful when IsArray
}

// Prim builds a scalar (non-array) Type.
func Prim(k PrimKind) Type { return Type{IsArray: false, Elem: k} }

// Array builds an array Type.
func Array(elem PrimKind, shape Shape, u Uniqueness) Type {
	return Type{IsArray: true, Elem: elem, Shape: shape, Unique: u}
}

// Rank returns the array rank, or 0 for a scalar.
func (t Type) Rank() int {
	if !t.IsArray {
		return 0
	}
	return t.Shape.Rank()
}

// Uniqueness returns the type's uniqueness tag (always Nonunique for a
// scalar: primitives carry no aliases, per spec §4.4).
func (t Type) Uniqueness() Uniqueness {
	if !t.IsArray {
		return Nonunique
	}
	return t.Unique
}

// WithUniqueness returns a copy of t with the given uniqueness tag.
func (t Type) WithUniqueness(u Uniqueness) Type {
	t.Unique = u
	return t
}

// AsNonunique strips uniqueness, used when comparing types at subtype
// boundaries where uniqueness is irrelevant (return-type matching).
func (t Type) AsNonunique() Type {
	return t.WithUniqueness(Nonunique)
}

func (t Type) String() string {
	if !t.IsArray {
		return t.Elem.String()
	}
	return t.Unique.String() + t.Shape.String() + t.Elem.String()
}

// Equal reports structural equality, including uniqueness.
func (t Type) Equal(o Type) bool {
	if t.IsArray != o.IsArray || t.Elem != o.Elem {
		return false
	}
	if !t.IsArray {
		return true
	}
	if t.Unique != o.Unique || len(t.Shape) != len(o.Shape) {
		return false
	}
	for i := range t.Shape {
		if !t.Shape[i].Equal(o.Shape[i]) {
			return false
		}
	}
	return true
}

// RankShape erases concrete dimensions to bare rank, replacing each with
// an existential (spec GLOSSARY: "Rank-shaped"). The checker's return and
// pattern matching compare types without applying it.
func (t Type) RankShape() Type {
	if !t.IsArray {
		return t
	}
	rankOnly := make(Shape, len(t.Shape))
	for i := range rankOnly {
		rankOnly[i] = ExtDim(i)
	}
	return Array(t.Elem, rankOnly, t.Unique)
}

// ExtType is a Type with existential dimensions allowed; it is
// instantiated to a plain Type at pattern-binding sites (spec §3).
type ExtType = Type

// IsSubtype reports whether t is a valid substitute for want at a
// coercion point: same element kind, same rank, same or wider uniqueness
// is NOT allowed the other way (a nonunique value cannot satisfy a unique
// requirement), but a unique value may satisfy a nonunique requirement.
func IsSubtype(t, want Type) bool {
	if t.IsArray != want.IsArray || t.Elem != want.Elem {
		return false
	}
	if !t.IsArray {
		return true
	}
	if len(t.Shape) != len(want.Shape) {
		return false
	}
	for i := range t.Shape {
		td, wd := t.Shape[i], want.Shape[i]
		if td.IsExt() || wd.IsExt() {
			continue // an existential on either side is a placeholder, not a constraint
		}
		if !td.Equal(wd) {
			return false
		}
	}
	if want.Unique == Unique && t.Unique != Unique {
		return false
	}
	return true
}
