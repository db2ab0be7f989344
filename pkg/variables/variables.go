// Package variables defines the host-native variable model shared by the
// import and export pipelines.
//
// A variable has one of four host-native [Type]s. Its value in a given mode
// is a [Value], a closed set of variants:
//
//   - [BoolValue], [FloatValue], [StringValue], [ColorValue]: direct values
//   - [AliasValue]: a reference to another variable's identity
//
// Alias is not a type. An alias variable's type is the type of whatever its
// chain eventually resolves to. The portable pseudo-type "ALIAS" only exists
// in the JSON document (see package document).
package variables

import (
	"strings"

	"github.com/matzehuels/varbridge/pkg/errors"
)

// Type is a host-native variable type.
type Type int

const (
	// TypeBoolean holds true/false values.
	TypeBoolean Type = iota + 1
	// TypeColor holds RGB(A) colors with channels in [0,1].
	TypeColor
	// TypeFloat holds numbers.
	TypeFloat
	// TypeString holds UTF-8 strings.
	TypeString
)

// AliasTypeName is the portable pseudo-type for variables whose every value
// is an alias.
const AliasTypeName = "ALIAS"

var typeNames = map[Type]string{
	TypeBoolean: "BOOLEAN",
	TypeColor:   "COLOR",
	TypeFloat:   "FLOAT",
	TypeString:  "STRING",
}

// String returns the portable name of t ("BOOLEAN", "COLOR", "FLOAT", "STRING").
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Valid reports whether t is one of the four host-native types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType parses a portable type name. Matching is case-insensitive since
// earlier document producers wrote lower-case names. "ALIAS" is rejected
// here: it is not a host-native type.
func ParseType(s string) (Type, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == upper {
			return t, nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnsupportedType, "unsupported variable type %q", s)
}

// IsAliasTypeName reports whether s names the portable ALIAS pseudo-type.
func IsAliasTypeName(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), AliasTypeName)
}

// Kind distinguishes the [Value] variants.
type Kind int

const (
	KindBool Kind = iota + 1
	KindFloat
	KindString
	KindColor
	KindAlias
)

// Value is a host-native value for one (variable, mode) pair.
// The set of implementations is closed.
type Value interface {
	Kind() Kind
	value()
}

// BoolValue is a direct boolean value.
type BoolValue bool

// FloatValue is a direct numeric value.
type FloatValue float64

// StringValue is a direct string value.
type StringValue string

// ColorValue is a direct color. Channels are in [0,1]. A is nil when the
// host did not record an alpha channel.
type ColorValue struct {
	R, G, B float64
	A       *float64
}

// AliasValue references another variable by host id. It references the
// variable's identity, not a mode-specific value of it.
type AliasValue struct {
	VariableID string
}

func (BoolValue) Kind() Kind   { return KindBool }
func (FloatValue) Kind() Kind  { return KindFloat }
func (StringValue) Kind() Kind { return KindString }
func (ColorValue) Kind() Kind  { return KindColor }
func (AliasValue) Kind() Kind  { return KindAlias }

func (BoolValue) value()   {}
func (FloatValue) value()  {}
func (StringValue) value() {}
func (ColorValue) value()  {}
func (AliasValue) value()  {}

// IsAlias reports whether v is an alias value.
func IsAlias(v Value) bool {
	_, ok := v.(AliasValue)
	return ok
}

// TypeOf returns the host-native type a direct value belongs to.
// It returns false for aliases and nil.
func TypeOf(v Value) (Type, bool) {
	switch v.(type) {
	case BoolValue:
		return TypeBoolean, true
	case FloatValue:
		return TypeFloat, true
	case StringValue:
		return TypeString, true
	case ColorValue:
		return TypeColor, true
	}
	return 0, false
}

// Zero returns the value a freshly created variable of type t holds.
func Zero(t Type) Value {
	switch t {
	case TypeBoolean:
		return BoolValue(false)
	case TypeFloat:
		return FloatValue(0)
	case TypeString:
		return StringValue("")
	default:
		return ColorValue{}
	}
}

// Alpha returns a pointer to a, for building [ColorValue] literals.
func Alpha(a float64) *float64 { return &a }
