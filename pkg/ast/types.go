package ast

import "fmt"

// BaseType is the scalar category of a data type
type BaseType int

const (
	BaseInvalid BaseType = iota
	BaseBool
	BaseInt
	BaseFloat
)

func (b BaseType) String() string {
	switch b {
	case BaseBool:
		return "bool"
	case BaseInt:
		return "int"
	case BaseFloat:
		return "float"
	}
	return "invalid"
}

// Type is a scalar (Order 1) or a 2/3/4-component vector of a base type.
// The zero value is the invalid type.
type Type struct {
	Base  BaseType
	Order int
}

// Frequently used types
var (
	Invalid = Type{}
	Bool    = Type{BaseBool, 1}
	Int     = Type{BaseInt, 1}
	Float   = Type{BaseFloat, 1}
	Bvec2   = Type{BaseBool, 2}
	Bvec3   = Type{BaseBool, 3}
	Bvec4   = Type{BaseBool, 4}
	Ivec2   = Type{BaseInt, 2}
	Ivec3   = Type{BaseInt, 3}
	Ivec4   = Type{BaseInt, 4}
	Vec2    = Type{BaseFloat, 2}
	Vec3    = Type{BaseFloat, 3}
	Vec4    = Type{BaseFloat, 4}
)

// IsValid reports whether t is a well-formed type
func (t Type) IsValid() bool {
	return t.Base != BaseInvalid && t.Order >= 1 && t.Order <= 4
}

// IsScalar reports whether t has a single component
func (t Type) IsScalar() bool {
	return t.Order == 1
}

// IsVector reports whether t has more than one component
func (t Type) IsVector() bool {
	return t.Order > 1
}

// Scalar returns the single-component type with the same base
func (t Type) Scalar() Type {
	return Type{Base: t.Base, Order: 1}
}

func (t Type) String() string {
	if !t.IsValid() {
		return "ANY_TYPE"
	}
	if t.Order == 1 {
		return t.Base.String()
	}
	prefix := ""
	switch t.Base {
	case BaseBool:
		prefix = "b"
	case BaseInt:
		prefix = "i"
	}
	return fmt.Sprintf("%svec%d", prefix, t.Order)
}

// Qualifier describes how a declared variable may be accessed
type Qualifier int

const (
	Ordinary  Qualifier = iota // mutable, user-declared
	Const                      // user-declared, compile-time constant
	Result                     // predefined, write-only output
	Attribute                  // predefined, read-only input
	Uniform                    // predefined, read-only input
)

func (q Qualifier) String() string {
	names := []string{"", "const", "result", "attribute", "uniform"}
	if int(q) < len(names) {
		return names[q]
	}
	return "?"
}
