package exporter

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/varbridge/pkg/document"
	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/host/memory"
	"github.com/matzehuels/varbridge/pkg/importer"
	"github.com/matzehuels/varbridge/pkg/observability"
	"github.com/matzehuels/varbridge/pkg/order"
	"github.com/matzehuels/varbridge/pkg/variables"
)

const singleVariable = `{"collections":[{"name":"Base","modes":["Light"],"variables":[{"name":"Primary","type":"COLOR","valuesByMode":{"Light":"#18A0FB"}}]}]}`

// roundTripDoc uses host types throughout, so export reproduces it exactly
// once collections are put in aliases-last order.
const roundTripDoc = `{"collections": [
  {"name": "Tokens", "modes": ["Light", "Dark"], "variables": [
    {"name": "Button", "type": "COLOR", "valuesByMode": {
      "Light": {"type": "ALIAS", "value": {"collection": "Base", "mode": "Light", "variable": "Primary"}},
      "Dark": {"type": "ALIAS", "value": {"collection": "Base", "mode": "Dark", "variable": "Primary"}}}},
    {"name": "Gap", "type": "FLOAT", "valuesByMode": {
      "Light": 8,
      "Dark": {"type": "ALIAS", "value": {"collection": "Base", "mode": "Dark", "variable": "Spacing"}}}}
  ]},
  {"name": "Base", "modes": ["Light", "Dark"], "variables": [
    {"name": "Primary", "type": "COLOR", "scopes": ["ALL_FILLS"], "description": "brand", "valuesByMode": {"Light": "#18A0FB", "Dark": "#0D8DE3"}},
    {"name": "Spacing", "type": "FLOAT", "valuesByMode": {"Light": 4, "Dark": 6}},
    {"name": "Dense", "type": "BOOLEAN", "valuesByMode": {"Light": false, "Dark": true}},
    {"name": "Font", "type": "STRING", "valuesByMode": {"Light": "Inter", "Dark": "Inter"}}
  ]}
]}`

func quietLogger() *log.Logger { return log.New(io.Discard) }

func load(t *testing.T, data string) *memory.Store {
	t.Helper()
	s := memory.New()
	if _, err := importer.ImportJSON(context.Background(), s, []byte(data), importer.Options{Logger: quietLogger()}); err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	in, err := document.Parse([]byte(roundTripDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := &document.Document{Collections: order.Collections(in)}

	got, err := Export(context.Background(), load(t, roundTripDoc), Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("export(import(doc)) mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripThroughJSON(t *testing.T) {
	first, err := ExportJSON(context.Background(), load(t, roundTripDoc), Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	second, err := ExportJSON(context.Background(), load(t, string(first)), Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Errorf("second export differs (-first +second):\n%s", diff)
	}
}

func TestExportSingleVariable(t *testing.T) {
	data, err := ExportJSON(context.Background(), load(t, singleVariable), Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	if !strings.Contains(string(data), `"Light": "#18A0FB"`) {
		t.Errorf("ExportJSON() = %s, want Light #18A0FB", data)
	}
}

func TestExportOmitsMissingValues(t *testing.T) {
	ctx := context.Background()
	s := load(t, roundTripDoc)
	cols, _ := s.ListCollections(ctx)
	var base string
	for _, c := range cols {
		if c.Name == "Base" {
			base = c.ID
			vars, _ := s.ListVariables(ctx, c.ID)
			if err := s.UnsetValue(vars[0].ID, c.Modes[1].ID); err != nil {
				t.Fatal(err)
			}
		}
	}

	doc, err := Export(ctx, s, Options{CollectionIDs: []string{base}, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	primary := doc.Collections[0].Variables[0]
	if _, ok := primary.Value("Dark"); ok {
		t.Error("Primary has a Dark value, want it omitted")
	}
	if _, ok := primary.Value("Light"); !ok {
		t.Error("Primary lost its Light value")
	}

	data, _ := document.Marshal(doc)
	if strings.Contains(string(data), "null") {
		t.Errorf("output contains null:\n%s", data)
	}
}

func TestExportSelection(t *testing.T) {
	ctx := context.Background()
	s := load(t, roundTripDoc)
	cols, _ := s.ListCollections(ctx)

	ids := make([]string, 0, len(cols))
	for _, c := range cols {
		ids = append([]string{c.ID}, ids...)
	}
	doc, err := Export(ctx, s, Options{CollectionIDs: ids[:1], Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if len(doc.Collections) != 1 {
		t.Errorf("len(Collections) = %d, want 1", len(doc.Collections))
	}

	_, err = Export(ctx, s, Options{CollectionIDs: []string{"collection:nope"}, Logger: quietLogger()})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Export(unknown id) error = %v, want %v", err, errors.ErrCodeNotFound)
	}
}

func TestExportAliasesLast(t *testing.T) {
	ctx := context.Background()
	s := load(t, roundTripDoc)
	cols, _ := s.ListCollections(ctx)

	// Select the aliased collection first; the output still puts it last.
	var ids []string
	for _, c := range cols {
		if c.Name == "Tokens" {
			ids = append([]string{c.ID}, ids...)
		} else {
			ids = append(ids, c.ID)
		}
	}
	doc, err := Export(ctx, s, Options{CollectionIDs: ids, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if doc.Collections[0].Name != "Base" || doc.Collections[1].Name != "Tokens" {
		t.Errorf("order = %s, %s; want Base, Tokens", doc.Collections[0].Name, doc.Collections[1].Name)
	}
}

func TestExportRawColors(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c, _ := s.CreateCollection(ctx, "Base")
	v, _ := s.CreateVariable(ctx, c.ID, "Overlay", variables.TypeColor)
	_ = s.SetValue(ctx, v.ID, c.Modes[0].ID, variables.ColorValue{R: 0.1, G: 0.2, B: 0.3, A: variables.Alpha(0.5)})

	doc, err := Export(ctx, s, Options{RawColors: true, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	got, _ := doc.Collections[0].Variables[0].Value(host.DefaultModeName)
	want := document.RGB{R: 0.1, G: 0.2, B: 0.3, A: variables.Alpha(0.5)}
	if diff := cmp.Diff(document.Value(want), got); diff != "" {
		t.Errorf("raw color mismatch (-want +got):\n%s", diff)
	}
}

func TestExportCrossCollectionFallback(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	base, _ := s.CreateCollection(ctx, "Base")
	blue, _ := s.CreateVariable(ctx, base.ID, "Blue", variables.TypeColor)

	tokens, _ := s.CreateCollection(ctx, "Tokens")
	_ = s.RenameMode(ctx, tokens.ID, tokens.Modes[0].ID, "Compact")
	link, _ := s.CreateVariable(ctx, tokens.ID, "Link", variables.TypeColor)
	_ = s.SetValue(ctx, link.ID, tokens.Modes[0].ID, variables.AliasValue{VariableID: blue.ID})

	doc, err := Export(ctx, s, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	tc, _ := doc.Collection("Tokens")
	got, _ := tc.Variables[0].Value("Compact")
	want := document.Alias{Collection: "Base", Mode: host.DefaultModeName, Variable: "Blue"}
	if got != want {
		t.Errorf("alias = %#v, want %#v", got, want)
	}
}

func TestExportSkipsDanglingAlias(t *testing.T) {
	ctx := context.Background()
	s := load(t, roundTripDoc)
	cols, _ := s.ListCollections(ctx)
	for _, c := range cols {
		if c.Name == "Base" {
			if err := s.RemoveCollection(ctx, c.ID); err != nil {
				t.Fatal(err)
			}
		}
	}

	doc, err := Export(ctx, s, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	tokens, ok := doc.Collection("Tokens")
	if !ok {
		t.Fatal("Tokens missing from export")
	}
	button, _ := tokens.Variable("Button")
	if len(button.Values) != 0 {
		t.Errorf("Button values = %v, want none", button.Values)
	}
	gap, _ := tokens.Variable("Gap")
	if got, _ := gap.Value("Light"); got != document.Float(8) {
		t.Errorf("Gap Light = %v, want 8", got)
	}
	if _, ok := gap.Value("Dark"); ok {
		t.Error("Gap Dark alias should be skipped")
	}
}

type exportCounter struct {
	observability.NoopConversionHooks
	started []int
}

func (h *exportCounter) OnExportStart(_ context.Context, collections int) {
	h.started = append(h.started, collections)
}

func TestExportHookReportsSelectedCollections(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks := &exportCounter{}
	observability.SetConversionHooks(hooks)

	ctx := context.Background()
	s := load(t, roundTripDoc)
	cols, _ := s.ListCollections(ctx)

	if _, err := Export(ctx, s, Options{Logger: quietLogger()}); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if _, err := Export(ctx, s, Options{CollectionIDs: []string{cols[0].ID}, Logger: quietLogger()}); err != nil {
		t.Fatalf("Export(selection) error: %v", err)
	}
	_, _ = Export(ctx, s, Options{CollectionIDs: []string{"collection:nope"}, Logger: quietLogger()})

	if diff := cmp.Diff([]int{2, 1, 0}, hooks.started); diff != "" {
		t.Errorf("OnExportStart counts mismatch (-want +got):\n%s", diff)
	}
}
