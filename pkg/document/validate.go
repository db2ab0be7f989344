package document

import (
	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/variables"
)

// Validate checks the rules of a decoded document that the schema cannot
// express. It returns the first problem found, in document order:
//
//   - collection, mode and variable names are valid and unique in their scope
//   - every collection declares at least one mode
//   - variable types are BOOLEAN, COLOR, FLOAT, STRING or ALIAS
//   - values are keyed by declared modes only
//   - value kinds match the declared type; ALIAS variables hold only aliases
//   - alias values name a collection and a variable
//
// Documents built in code should be validated before import; [ReadJSON]
// calls Validate itself.
func Validate(doc *Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidDocument, "nil document")
	}

	collections := make(map[string]bool, len(doc.Collections))
	for _, c := range doc.Collections {
		if err := errors.ValidateName("collection", c.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "invalid collection")
		}
		if collections[c.Name] {
			return errors.New(errors.ErrCodeInvalidDocument, "duplicate collection %q", c.Name)
		}
		collections[c.Name] = true

		if err := validateCollection(c); err != nil {
			return errors.Annotate(err, errors.ErrCodeInvalidDocument, "collection %q", c.Name)
		}
	}
	return nil
}

func validateCollection(c Collection) error {
	if len(c.Modes) == 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "no modes declared")
	}
	modes := make(map[string]bool, len(c.Modes))
	for _, m := range c.Modes {
		if err := errors.ValidateName("mode", m); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "invalid mode")
		}
		if modes[m] {
			return errors.New(errors.ErrCodeInvalidDocument, "duplicate mode %q", m)
		}
		modes[m] = true
	}

	names := make(map[string]bool, len(c.Variables))
	for _, v := range c.Variables {
		if err := errors.ValidateName("variable", v.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "invalid variable")
		}
		if names[v.Name] {
			return errors.New(errors.ErrCodeInvalidDocument, "duplicate variable %q", v.Name)
		}
		names[v.Name] = true

		if err := validateVariable(v, modes); err != nil {
			return errors.Annotate(err, errors.ErrCodeInvalidDocument, "variable %q", v.Name)
		}
	}
	return nil
}

func validateVariable(v Variable, modes map[string]bool) error {
	aliasOnly := v.IsAliasType()
	var typ variables.Type
	if !aliasOnly {
		t, err := v.DirectType()
		if err != nil {
			return err
		}
		typ = t
	}

	seen := make(map[string]bool, len(v.Values))
	for _, mv := range v.Values {
		if !modes[mv.Mode] {
			return errors.New(errors.ErrCodeUnknownMode, "value for undeclared mode %q", mv.Mode)
		}
		if seen[mv.Mode] {
			return errors.New(errors.ErrCodeInvalidDocument, "duplicate value for mode %q", mv.Mode)
		}
		seen[mv.Mode] = true

		if err := checkValue(mv.Value, typ, aliasOnly); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "mode %q", mv.Mode)
		}
	}
	return nil
}

func checkValue(val Value, typ variables.Type, aliasOnly bool) error {
	if a, ok := val.(Alias); ok {
		if a.Collection == "" || a.Variable == "" {
			return errors.New(errors.ErrCodeInvalidDocument, "alias needs a collection and a variable")
		}
		return nil
	}
	if aliasOnly {
		return errors.New(errors.ErrCodeInvalidDocument, "ALIAS variable holds a direct value")
	}

	var ok bool
	switch val.(type) {
	case Bool:
		ok = typ == variables.TypeBoolean
	case Float:
		ok = typ == variables.TypeFloat
	case String:
		ok = typ == variables.TypeString
	case Hex, RGB:
		ok = typ == variables.TypeColor
	case nil:
		return errors.New(errors.ErrCodeInvalidDocument, "missing value")
	}
	if !ok {
		return errors.New(errors.ErrCodeInvalidDocument, "%s value for %s variable", kindName(val), typ)
	}
	return nil
}

func kindName(val Value) string {
	switch val.(type) {
	case Bool:
		return "boolean"
	case Float:
		return "numeric"
	case String:
		return "string"
	case Hex, RGB:
		return "color"
	case Alias:
		return "alias"
	}
	return "unknown"
}
