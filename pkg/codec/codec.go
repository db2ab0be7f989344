// Package codec converts single values between the portable document form
// and the host-native form.
//
// Colors travel as "#RRGGBB" strings in documents and as channels in [0,1]
// on the host. Every other primitive passes through unchanged. Alias values
// are not handled here: they need name resolution (see package alias).
package codec

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/varbridge/pkg/document"
	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/variables"
)

// ParseHex converts a "#RRGGBB" string into a color. Hex digits are
// case-insensitive. Any other shape, including 3- and 8-digit forms, fails
// with MALFORMED_COLOR_VALUE. The result carries no alpha channel.
func ParseHex(s string) (variables.ColorValue, error) {
	if len(s) != 7 || s[0] != '#' {
		return variables.ColorValue{}, errors.New(errors.ErrCodeMalformedColor, "color %q is not #RRGGBB", s)
	}
	n, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return variables.ColorValue{}, errors.New(errors.ErrCodeMalformedColor, "color %q is not #RRGGBB", s)
	}
	return variables.ColorValue{
		R: float64(n>>16&0xff) / 255,
		G: float64(n>>8&0xff) / 255,
		B: float64(n&0xff) / 255,
	}, nil
}

// FormatHex renders a color as an upper-case "#RRGGBB" string. Channels are
// scaled by 255, rounded half away from zero and clamped to [0,255]. Alpha
// is dropped.
func FormatHex(c variables.ColorValue) string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	n := int(math.Round(f * 255))
	return max(0, min(255, n))
}

// Decode converts a direct document value into a host value of type t.
// Hex strings are parsed for COLOR; every other variant must already match
// t. Passing an alias is a programming error and fails with INVALID_DOCUMENT.
func Decode(t variables.Type, v document.Value) (variables.Value, error) {
	switch x := v.(type) {
	case document.Bool:
		if t == variables.TypeBoolean {
			return variables.BoolValue(x), nil
		}
	case document.Float:
		if t == variables.TypeFloat {
			return variables.FloatValue(x), nil
		}
	case document.String:
		if t == variables.TypeString {
			return variables.StringValue(x), nil
		}
	case document.Hex:
		if t == variables.TypeColor {
			return ParseHex(string(x))
		}
	case document.RGB:
		if t == variables.TypeColor {
			return variables.ColorValue{R: x.R, G: x.G, B: x.B, A: x.A}, nil
		}
	case document.Alias:
		return nil, errors.New(errors.ErrCodeInvalidDocument, "alias to %s/%s needs resolution", x.Collection, x.Variable)
	}
	return nil, errors.New(errors.ErrCodeInvalidDocument, "value %v does not fit type %s", v, t)
}

// Encode converts a direct host value into its document form. Colors become
// [document.Hex] when hex is true and [document.RGB] otherwise.
func Encode(v variables.Value, hex bool) (document.Value, error) {
	switch x := v.(type) {
	case variables.BoolValue:
		return document.Bool(x), nil
	case variables.FloatValue:
		return document.Float(x), nil
	case variables.StringValue:
		return document.String(x), nil
	case variables.ColorValue:
		if hex {
			return document.Hex(FormatHex(x)), nil
		}
		return document.RGB{R: x.R, G: x.G, B: x.B, A: x.A}, nil
	case variables.AliasValue:
		return nil, errors.New(errors.ErrCodeInternal, "alias %s needs resolution", x.VariableID)
	}
	return nil, errors.New(errors.ErrCodeInternal, "unknown value %T", v)
}
