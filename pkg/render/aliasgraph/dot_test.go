package aliasgraph

import (
	"strings"
	"testing"

	"github.com/matzehuels/varbridge/pkg/document"
)

func testDoc() *document.Document {
	return &document.Document{Collections: []document.Collection{
		{
			Name:  "Base",
			Modes: []string{"Light"},
			Variables: []document.Variable{
				{Name: "Primary", Type: "COLOR", Values: []document.ModeValue{{Mode: "Light", Value: document.Hex("#18A0FB")}}},
			},
		},
		{
			Name:  "Tokens",
			Modes: []string{"Light"},
			Variables: []document.Variable{
				{Name: "Button", Type: "ALIAS", Values: []document.ModeValue{
					{Mode: "Light", Value: document.Alias{Collection: "Base", Mode: "Light", Variable: "Primary"}},
				}},
				{Name: "Link", Type: "COLOR", Values: []document.ModeValue{
					{Mode: "Light", Value: document.Alias{Collection: "Elsewhere", Variable: "Blue"}},
				}},
			},
		},
	}}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testDoc(), Options{})

	for _, want := range []string{
		"digraph aliases {",
		"subgraph cluster_0 {",
		`label="Tokens";`,
		`"Base/Primary" [label="Primary"];`,
		`"Tokens/Button" [label="Button", style="rounded,filled,dashed", fillcolor=lightgrey];`,
		`"Tokens/Button" -> "Base/Primary";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "Elsewhere") {
		t.Errorf("DOT should not mention targets outside the document:\n%s", dot)
	}
	if n := strings.Count(dot, "->"); n != 1 {
		t.Errorf("DOT has %d edges, want 1", n)
	}
}

func TestToDOTFlatDetailed(t *testing.T) {
	dot := ToDOT(testDoc(), Options{Flat: true, Detailed: true})
	if strings.Contains(dot, "subgraph") {
		t.Errorf("flat DOT has clusters:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Base/Primary\nCOLOR"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 40.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 40.00" width="100" height="40"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
