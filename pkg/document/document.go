package document

import (
	"github.com/matzehuels/varbridge/pkg/variables"
)

// Document is a decoded portable document.
type Document struct {
	Collections []Collection
}

// Collection is a named group of variables evaluated under ordered modes.
type Collection struct {
	Name      string
	Modes     []string
	Variables []Variable
}

// Variable is a named, typed slot with one value per mode.
type Variable struct {
	Name string
	// Type is the portable type name as written: BOOLEAN, COLOR, FLOAT,
	// STRING or the pseudo-type ALIAS.
	Type        string
	Description string
	Scopes      []string
	// Values holds the per-mode values. Declared modes come first, in
	// collection mode order.
	Values []ModeValue
}

// ModeValue is the value of a variable under one named mode.
type ModeValue struct {
	Mode  string
	Value Value
}

// Value is a portable value. The set of implementations is closed.
type Value interface {
	portable()
}

// Bool is a boolean value.
type Bool bool

// Float is a numeric value.
type Float float64

// String is a string value of a STRING variable.
type String string

// Hex is a color written as "#RRGGBB".
type Hex string

// RGB is a color written as raw channels in [0,1]. Exporters emit it when
// hex output is disabled.
type RGB struct {
	R, G, B float64
	A       *float64
}

// Alias is a symbolic reference to a variable of some collection. Mode
// records which mode the alias was authored against and is informational.
type Alias struct {
	Collection string
	Mode       string
	Variable   string
}

func (Bool) portable()   {}
func (Float) portable()  {}
func (String) portable() {}
func (Hex) portable()    {}
func (RGB) portable()    {}
func (Alias) portable()  {}

// IsAlias reports whether v is an [Alias].
func IsAlias(v Value) bool {
	_, ok := v.(Alias)
	return ok
}

// Collection returns the collection called name.
func (d *Document) Collection(name string) (Collection, bool) {
	for _, c := range d.Collections {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// VariableCount returns the number of variables across all collections.
func (d *Document) VariableCount() int {
	n := 0
	for _, c := range d.Collections {
		n += len(c.Variables)
	}
	return n
}

// Variable returns the variable called name.
func (c Collection) Variable(name string) (Variable, bool) {
	for _, v := range c.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// HasAlias reports whether any variable of c holds an alias in any mode.
func (c Collection) HasAlias() bool {
	for _, v := range c.Variables {
		if v.HasAlias() {
			return true
		}
	}
	return false
}

// HasMode reports whether c declares a mode called name.
func (c Collection) HasMode(name string) bool {
	for _, m := range c.Modes {
		if m == name {
			return true
		}
	}
	return false
}

// IsAliasType reports whether v is declared with the ALIAS pseudo-type.
func (v Variable) IsAliasType() bool {
	return variables.IsAliasTypeName(v.Type)
}

// HasAlias reports whether v is alias-bearing: declared ALIAS, or holding
// an alias value in at least one mode.
func (v Variable) HasAlias() bool {
	if v.IsAliasType() {
		return true
	}
	for _, mv := range v.Values {
		if IsAlias(mv.Value) {
			return true
		}
	}
	return false
}

// Value returns the value of v under mode.
func (v Variable) Value(mode string) (Value, bool) {
	for _, mv := range v.Values {
		if mv.Mode == mode {
			return mv.Value, true
		}
	}
	return nil, false
}

// Aliases returns the alias values of v in mode order.
func (v Variable) Aliases() []Alias {
	var out []Alias
	for _, mv := range v.Values {
		if a, ok := mv.Value.(Alias); ok {
			out = append(out, a)
		}
	}
	return out
}

// DirectType parses the declared type of a non-ALIAS variable.
func (v Variable) DirectType() (variables.Type, error) {
	return variables.ParseType(v.Type)
}
