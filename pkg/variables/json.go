package variables

import (
	"encoding/json"
	"fmt"
)

// envelope is the persisted form of a [Value]. It is used for store
// snapshots, never for the portable document.
type envelope struct {
	Kind  string   `json:"kind"`
	Bool  *bool    `json:"bool,omitempty"`
	Float *float64 `json:"float,omitempty"`
	Str   *string  `json:"string,omitempty"`
	Color *rgba    `json:"color,omitempty"`
	Alias string   `json:"alias,omitempty"`
}

type rgba struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a,omitempty"`
}

var kindNames = map[Kind]string{
	KindBool:   "bool",
	KindFloat:  "float",
	KindString: "string",
	KindColor:  "color",
	KindAlias:  "alias",
}

// MarshalValue encodes v as a tagged JSON object.
func MarshalValue(v Value) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("marshal value: nil value")
	}
	env := envelope{Kind: kindNames[v.Kind()]}
	switch x := v.(type) {
	case BoolValue:
		b := bool(x)
		env.Bool = &b
	case FloatValue:
		f := float64(x)
		env.Float = &f
	case StringValue:
		s := string(x)
		env.Str = &s
	case ColorValue:
		env.Color = &rgba{R: x.R, G: x.G, B: x.B, A: x.A}
	case AliasValue:
		env.Alias = x.VariableID
	}
	return json.Marshal(env)
}

// UnmarshalValue decodes a value produced by [MarshalValue].
func UnmarshalValue(data []byte) (Value, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	switch env.Kind {
	case "bool":
		if env.Bool != nil {
			return BoolValue(*env.Bool), nil
		}
	case "float":
		if env.Float != nil {
			return FloatValue(*env.Float), nil
		}
	case "string":
		if env.Str != nil {
			return StringValue(*env.Str), nil
		}
	case "color":
		if env.Color != nil {
			return ColorValue{R: env.Color.R, G: env.Color.G, B: env.Color.B, A: env.Color.A}, nil
		}
	case "alias":
		if env.Alias != "" {
			return AliasValue{VariableID: env.Alias}, nil
		}
	}
	return nil, fmt.Errorf("unmarshal value: malformed %q value", env.Kind)
}
