// Package document implements the portable JSON interchange format for
// variable collections.
//
// # Overview
//
// A document is a list of collections. Each collection declares its ordered
// modes and its variables; each variable carries one value per mode:
//
//	{
//	  "collections": [
//	    {
//	      "name": "Base",
//	      "modes": ["Light", "Dark"],
//	      "variables": [
//	        {
//	          "name": "Primary",
//	          "type": "COLOR",
//	          "valuesByMode": {"Light": "#18A0FB", "Dark": "#0D8DE3"}
//	        }
//	      ]
//	    }
//	  ]
//	}
//
// # Values
//
// Values are decoded once into a closed set of variants ([Bool], [Float],
// [String], [Hex], [RGB], [Alias]) according to the declared variable type,
// so later stages never inspect raw JSON again. An alias value is written as
//
//	{"type": "ALIAS", "value": {"collection": "Base", "mode": "Light", "variable": "Primary"}}
//
// and may appear under any type. Variables of the pseudo-type "ALIAS" hold
// only alias values.
//
// # Legacy Format
//
// An earlier producer wrote documents mode-major, with each mode listing its
// variables and a single value per entry:
//
//	{"collections": [{"name": "Base", "modes": [
//	  {"name": "Light", "variables": [{"name": "Primary", "type": "COLOR", "value": "#18A0FB"}]}
//	]}]}
//
// [ReadJSON] detects that shape per collection and normalizes it into the
// canonical one. [WriteJSON] only ever writes the canonical shape.
//
// # Validation
//
// [ReadJSON] checks the raw JSON against an embedded JSON Schema before
// decoding, then runs [Validate] for the rules a schema cannot express
// (unique names, declared modes, value kinds matching declared types).
// Color syntax is checked later by the codec, at the point a value is used.
package document
