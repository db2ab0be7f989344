package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/keboola/go-utils/pkg/orderedmap"
)

type outDocument struct {
	Collections []outCollection `json:"collections"`
}

type outCollection struct {
	Name      string        `json:"name"`
	Modes     []string      `json:"modes"`
	Variables []outVariable `json:"variables"`
}

type outVariable struct {
	Name         string                 `json:"name"`
	Type         string                 `json:"type"`
	Description  string                 `json:"description,omitempty"`
	Scopes       []string               `json:"scopes,omitempty"`
	ValuesByMode *orderedmap.OrderedMap `json:"valuesByMode"`
}

type outAlias struct {
	Type  string         `json:"type"`
	Value outAliasTarget `json:"value"`
}

type outAliasTarget struct {
	Collection string `json:"collection"`
	Mode       string `json:"mode"`
	Variable   string `json:"variable"`
}

type outRGB struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a,omitempty"`
}

// WriteJSON encodes doc in the canonical shape and writes it to w with
// two-space indentation. valuesByMode keys are written in collection mode
// order. The output can be read back with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toOut(doc)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the canonical JSON encoding of doc.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(toOut(doc), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}

func toOut(doc *Document) outDocument {
	out := outDocument{Collections: make([]outCollection, 0, len(doc.Collections))}
	for _, c := range doc.Collections {
		oc := outCollection{
			Name:      c.Name,
			Modes:     append([]string{}, c.Modes...),
			Variables: make([]outVariable, 0, len(c.Variables)),
		}
		for _, v := range c.Variables {
			values := orderedmap.New()
			for _, mv := range v.Values {
				values.Set(mv.Mode, encodeValue(mv.Value))
			}
			oc.Variables = append(oc.Variables, outVariable{
				Name:         v.Name,
				Type:         v.Type,
				Description:  v.Description,
				Scopes:       v.Scopes,
				ValuesByMode: values,
			})
		}
		out.Collections = append(out.Collections, oc)
	}
	return out
}

func encodeValue(v Value) any {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case Hex:
		return string(x)
	case RGB:
		return outRGB{R: x.R, G: x.G, B: x.B, A: x.A}
	case Alias:
		return outAlias{
			Type:  "ALIAS",
			Value: outAliasTarget{Collection: x.Collection, Mode: x.Mode, Variable: x.Variable},
		}
	}
	return nil
}
