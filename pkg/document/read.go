package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/variables"
)

type inDocument struct {
	Collections []inCollection `json:"collections"`
}

type inCollection struct {
	Name      string            `json:"name"`
	Modes     []json.RawMessage `json:"modes"`
	Variables []inVariable      `json:"variables"`
}

type inVariable struct {
	Name         string                     `json:"name"`
	Type         string                     `json:"type"`
	Description  string                     `json:"description"`
	Scopes       []string                   `json:"scopes"`
	ValuesByMode map[string]json.RawMessage `json:"valuesByMode"`
	Value        json.RawMessage            `json:"value"`
}

type inLegacyMode struct {
	Name      string       `json:"name"`
	Variables []inVariable `json:"variables"`
}

// inObject is the union of every object-shaped value encoding.
type inObject struct {
	Type       string         `json:"type"`
	Value      *inAliasTarget `json:"value"`
	Collection string         `json:"collection"`
	Mode       string         `json:"mode"`
	Variable   string         `json:"variable"`
	R          *float64       `json:"r"`
	G          *float64       `json:"g"`
	B          *float64       `json:"b"`
	A          *float64       `json:"a"`
}

type inAliasTarget struct {
	Collection string `json:"collection"`
	Mode       string `json:"mode"`
	Variable   string `json:"variable"`
}

// ReadJSON decodes a portable document from r.
//
// The input is first checked against the embedded JSON Schema, then decoded
// into typed values, then checked with [Validate]. Collections written in
// the legacy mode-major shape are normalized on the way in.
//
// All failures carry a code from package errors: INVALID_DOCUMENT for shape
// problems, UNSUPPORTED_VARIABLE_TYPE for unknown type names and
// UNKNOWN_MODE for values keyed by an undeclared mode. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Parse(data)
}

// Parse decodes a portable document from data. See [ReadJSON].
func Parse(data []byte) (*Document, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode")
	}
	if err := checkSchema(generic); err != nil {
		return nil, err
	}

	var in inDocument
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode")
	}

	doc := &Document{Collections: make([]Collection, 0, len(in.Collections))}
	for _, ic := range in.Collections {
		c, err := decodeCollection(ic)
		if err != nil {
			return nil, errors.Annotate(err, errors.ErrCodeInvalidDocument, "collection %q", ic.Name)
		}
		doc.Collections = append(doc.Collections, c)
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ImportJSON reads the document file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func decodeCollection(ic inCollection) (Collection, error) {
	if isLegacy(ic.Modes) {
		return decodeLegacyCollection(ic)
	}

	// Legacy collections keep their variables inside the modes; canonical
	// ones must carry the array, even when empty.
	if ic.Variables == nil {
		return Collection{}, errors.New(errors.ErrCodeInvalidDocument, "missing variables array")
	}

	c := Collection{Name: ic.Name, Modes: make([]string, 0, len(ic.Modes))}
	for _, raw := range ic.Modes {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return Collection{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "mode")
		}
		c.Modes = append(c.Modes, name)
	}

	c.Variables = make([]Variable, 0, len(ic.Variables))
	for _, iv := range ic.Variables {
		v := Variable{
			Name:        iv.Name,
			Type:        iv.Type,
			Description: iv.Description,
			Scopes:      iv.Scopes,
		}
		for _, mode := range valueModes(c.Modes, iv.ValuesByMode) {
			val, err := decodeValue(iv.ValuesByMode[mode], iv.Type)
			if err != nil {
				return Collection{}, errors.Annotate(err, errors.ErrCodeInvalidDocument, "variable %q mode %q", iv.Name, mode)
			}
			v.Values = append(v.Values, ModeValue{Mode: mode, Value: val})
		}
		c.Variables = append(c.Variables, v)
	}
	return c, nil
}

// valueModes returns the keys of byMode: declared modes first, in declared
// order, then undeclared keys sorted so that validation reports them
// deterministically.
func valueModes(declared []string, byMode map[string]json.RawMessage) []string {
	out := make([]string, 0, len(byMode))
	known := make(map[string]bool, len(declared))
	for _, m := range declared {
		known[m] = true
		if _, ok := byMode[m]; ok {
			out = append(out, m)
		}
	}
	var extra []string
	for m := range byMode {
		if !known[m] {
			extra = append(extra, m)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// isLegacy reports whether the modes array holds mode objects rather than
// names.
func isLegacy(modes []json.RawMessage) bool {
	for _, raw := range modes {
		trimmed := bytes.TrimLeft(raw, " \t\r\n")
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return true
		}
	}
	return false
}

// decodeLegacyCollection pivots a mode-major collection into the canonical
// variable-major layout. Variable order follows first appearance across
// modes; the type of a variable is taken from its first occurrence.
func decodeLegacyCollection(ic inCollection) (Collection, error) {
	c := Collection{Name: ic.Name}
	index := make(map[string]int)

	for _, raw := range ic.Modes {
		var m inLegacyMode
		if err := json.Unmarshal(raw, &m); err != nil {
			return Collection{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "legacy mode")
		}
		c.Modes = append(c.Modes, m.Name)

		for _, iv := range m.Variables {
			i, ok := index[iv.Name]
			if !ok {
				i = len(c.Variables)
				index[iv.Name] = i
				c.Variables = append(c.Variables, Variable{Name: iv.Name, Type: iv.Type})
			}
			v := &c.Variables[i]
			if !strings.EqualFold(v.Type, iv.Type) {
				return Collection{}, errors.New(errors.ErrCodeInvalidDocument,
					"variable %q declared as %s and %s", iv.Name, v.Type, iv.Type)
			}
			if _, dup := v.Value(m.Name); dup {
				return Collection{}, errors.New(errors.ErrCodeInvalidDocument,
					"variable %q listed twice in mode %q", iv.Name, m.Name)
			}
			val, err := decodeValue(iv.Value, iv.Type)
			if err != nil {
				return Collection{}, errors.Annotate(err, errors.ErrCodeInvalidDocument, "variable %q mode %q", iv.Name, m.Name)
			}
			v.Values = append(v.Values, ModeValue{Mode: m.Name, Value: val})
		}
	}
	return c, nil
}

// decodeValue interprets raw according to the declared type name. Strings
// become [Hex] for COLOR variables and [String] otherwise.
func decodeValue(raw json.RawMessage, declared string) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "missing value")
	}

	switch trimmed[0] {
	case '{':
		return decodeObject(trimmed)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "string value")
		}
		if t, err := variables.ParseType(declared); err == nil && t == variables.TypeColor {
			return Hex(s), nil
		}
		return String(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "boolean value")
		}
		return Bool(b), nil
	case 'n':
		return nil, errors.New(errors.ErrCodeInvalidDocument, "null value")
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "numeric value")
		}
		return Float(f), nil
	}
}

func decodeObject(raw []byte) (Value, error) {
	var o inObject
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "object value")
	}

	switch {
	case o.Value != nil && isAliasMarker(o.Type):
		return Alias{Collection: o.Value.Collection, Mode: o.Value.Mode, Variable: o.Value.Variable}, nil
	case o.Type == "" && o.Collection != "" && o.Variable != "":
		// Legacy alias values are bare targets.
		return Alias{Collection: o.Collection, Mode: o.Mode, Variable: o.Variable}, nil
	case o.R != nil && o.G != nil && o.B != nil:
		return RGB{R: *o.R, G: *o.G, B: *o.B, A: o.A}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidDocument, "unrecognized object value %s", raw)
}

func isAliasMarker(s string) bool {
	return variables.IsAliasTypeName(s) || strings.EqualFold(s, "VARIABLE_ALIAS")
}
