// Package types models the LDPL type tag: a recursive sum of Number,
// Text, and homogeneous List/Map wrappers over either scalar (spec.md §3).
package types

import "strings"

// Kind is the tag of a Type.
type Kind int

const (
	Number Kind = iota
	Text
	List
	Map
)

// Type is a recursive sum type: Number | Text | List(T) | Map(T).
// Elem is nil for Number and Text, and holds the element type for List
// and Map (which, per spec.md, is itself always a scalar in LDPL: lists
// and maps are never nested).
type Type struct {
	Kind Kind
	Elem *Type
}

var (
	NumberType = Type{Kind: Number}
	TextType   = Type{Kind: Text}
)

// NumberList / NumberMap / TextList / TextMap build the four collection
// types LDPL's DATA: section actually allows.
func NumberList() Type { return Type{Kind: List, Elem: &Type{Kind: Number}} }
func NumberMap() Type  { return Type{Kind: Map, Elem: &Type{Kind: Number}} }
func TextList() Type   { return Type{Kind: List, Elem: &Type{Kind: Text}} }
func TextMap() Type    { return Type{Kind: Map, Elem: &Type{Kind: Text}} }

func (t Type) IsNumber() bool { return t.Kind == Number }
func (t Type) IsText() bool   { return t.Kind == Text }
func (t Type) IsList() bool   { return t.Kind == List }
func (t Type) IsMap() bool    { return t.Kind == Map }
func (t Type) IsCollection() bool {
	return t.Kind == List || t.Kind == Map
}

// IsTextCollection reports whether t is a List or Map of Text.
func (t Type) IsTextCollection() bool {
	return t.IsCollection() && t.Elem != nil && t.Elem.Kind == Text
}

// IsNumberCollection reports whether t is a List or Map of Number.
func (t Type) IsNumberCollection() bool {
	return t.IsCollection() && t.Elem != nil && t.Elem.Kind == Number
}

// Scalar strips List/Map wrappers until a Number or Text is reached.
// Used when typing positional arguments for user-statement resolution
// (spec.md §4.2): a "number list" argument scalar-reduces to Number.
func (t Type) Scalar() Type {
	cur := t
	for cur.Elem != nil {
		cur = *cur.Elem
	}
	return cur
}

func (t Type) String() string {
	switch t.Kind {
	case Number:
		return "number"
	case Text:
		return "text"
	case List:
		return t.Elem.String() + " list"
	case Map:
		return t.Elem.String() + " map"
	default:
		return "unknown"
	}
}

// Parse converts a surface type name — "number", "text", "number list",
// "text list", "number map"/"number vector", "text map"/"text vector" —
// into a Type. Matching is case-insensitive and whitespace-normalized,
// since LDPL type names are multi-word.
func Parse(name string) (Type, bool) {
	norm := strings.ToLower(strings.Join(strings.Fields(name), " "))
	switch norm {
	case "number":
		return NumberType, true
	case "text":
		return TextType, true
	case "number list":
		return NumberList(), true
	case "number map", "number vector":
		return NumberMap(), true
	case "text list":
		return TextList(), true
	case "text map", "text vector":
		return TextMap(), true
	default:
		return Type{}, false
	}
}
