package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/varbridge/pkg/document"
	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/observability"
	"github.com/matzehuels/varbridge/pkg/plugin"
)

// runCLI executes one command against the file workspace in dir and
// returns what it wrote to Out.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	c.In = strings.NewReader("")

	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.toml"),
		"--backend", "file",
		"--workspace-path", filepath.Join(dir, "ws"),
	}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// importTemplate seeds the workspace in dir with the default template.
func importTemplate(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, "tokens.json")
	if _, err := runCLI(t, dir, "template", "-o", path); err != nil {
		t.Fatalf("template: %v", err)
	}
	if _, err := runCLI(t, dir, "import", path); err != nil {
		t.Fatalf("import: %v", err)
	}
}

func TestTemplateCommand(t *testing.T) {
	captureStatus(t)
	out, err := runCLI(t, t.TempDir(), "template")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if diff := cmp.Diff(string(plugin.Template()), out); diff != "" {
		t.Errorf("template output mismatch (-want +got):\n%s", diff)
	}
}

func TestImportPersistsAcrossRuns(t *testing.T) {
	captureStatus(t)
	dir := t.TempDir()
	importTemplate(t, dir)

	out, err := runCLI(t, dir, "collections")
	if err != nil {
		t.Fatalf("collections: %v", err)
	}
	for _, name := range []string{"Base Colors", "Alias Tokens", "Responsive"} {
		if !strings.Contains(out, name) {
			t.Errorf("collections output missing %q:\n%s", name, out)
		}
	}

	out, err = runCLI(t, dir, "modes", "Responsive")
	if err != nil {
		t.Fatalf("modes: %v", err)
	}
	if !strings.Contains(out, "Desktop") || !strings.Contains(out, "Mobile") {
		t.Errorf("modes output = %s, want Desktop and Mobile", out)
	}
}

func TestExportCommand(t *testing.T) {
	captureStatus(t)
	dir := t.TempDir()
	importTemplate(t, dir)

	out, err := runCLI(t, dir, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	doc, err := document.Parse([]byte(out))
	if err != nil {
		t.Fatalf("export output does not parse: %v", err)
	}
	if n := len(doc.Collections); n != 3 {
		t.Fatalf("exported %d collections, want 3", n)
	}
	if last := doc.Collections[2].Name; last != "Alias Tokens" {
		t.Errorf("last collection = %q, want Alias Tokens", last)
	}

	path := filepath.Join(dir, "base.json")
	if _, err := runCLI(t, dir, "export", "--collection", "Base Colors", "--raw-colors", "-o", path); err != nil {
		t.Fatalf("export selection: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc, err = document.Parse(data)
	if err != nil {
		t.Fatalf("exported file does not parse: %v", err)
	}
	if len(doc.Collections) != 1 || doc.Collections[0].Name != "Base Colors" {
		t.Fatalf("exported %+v, want only Base Colors", doc.Collections)
	}
	v, _ := doc.Collections[0].Variables[0].Value("Light")
	if _, ok := v.(document.RGB); !ok {
		t.Errorf("color exported as %T, want RGB", v)
	}
}

func TestExportUnknownCollection(t *testing.T) {
	captureStatus(t)
	_, err := runCLI(t, t.TempDir(), "export", "--collection", "Nope")
	if !errors.Is(err, errors.ErrCodeUnknownCollection) {
		t.Errorf("export error = %v, want %s", err, errors.ErrCodeUnknownCollection)
	}
}

func TestPreviewCommand(t *testing.T) {
	captureStatus(t)
	dir := t.TempDir()
	importTemplate(t, dir)

	out, err := runCLI(t, dir, "preview", "Alias Tokens", "Dark")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	for _, want := range []string{"Alias Tokens - Dark", "Button Background", "#0D8DE3"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview output missing %q:\n%s", want, out)
		}
	}

	_, err = runCLI(t, dir, "preview", "Alias Tokens", "Sepia")
	if !errors.Is(err, errors.ErrCodeUnknownMode) {
		t.Errorf("preview error = %v, want %s", err, errors.ErrCodeUnknownMode)
	}
}

func TestGraphCommand(t *testing.T) {
	captureStatus(t)
	dir := t.TempDir()
	importTemplate(t, dir)

	out, err := runCLI(t, dir, "graph")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.HasPrefix(out, "digraph aliases {") {
		t.Errorf("graph output = %q, want DOT", out)
	}
	if !strings.Contains(out, `"Alias Tokens/Button Background" -> "Base Colors/Primary Color";`) {
		t.Errorf("graph output missing alias edge:\n%s", out)
	}

	if _, err := runCLI(t, dir, "graph", "--format", "png"); err == nil {
		t.Error("graph --format png succeeded, want error")
	}
}

func TestDeleteAllRequiresConfirmation(t *testing.T) {
	captureStatus(t)
	dir := t.TempDir()
	importTemplate(t, dir)

	_, err := runCLI(t, dir, "delete-all")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("delete-all error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := runCLI(t, dir, "delete-all", "--yes"); err != nil {
		t.Fatalf("delete-all --yes: %v", err)
	}
	out, err := runCLI(t, dir, "workspace", "info")
	if err != nil {
		t.Fatalf("workspace info: %v", err)
	}
	if !strings.Contains(out, "Collections") || !strings.Contains(out, " 0") {
		t.Errorf("workspace info = %s, want 0 collections", out)
	}
}

func TestWorkspaceReset(t *testing.T) {
	captureStatus(t)
	dir := t.TempDir()
	importTemplate(t, dir)

	if _, err := runCLI(t, dir, "workspace", "reset"); err == nil {
		t.Fatal("workspace reset without --yes succeeded")
	}
	if _, err := runCLI(t, dir, "workspace", "reset", "--yes"); err != nil {
		t.Fatalf("workspace reset: %v", err)
	}
	out, err := runCLI(t, dir, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	doc, err := document.Parse([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Collections) != 0 {
		t.Errorf("reset workspace exported %d collections", len(doc.Collections))
	}
}

func TestBadWorkspaceKey(t *testing.T) {
	captureStatus(t)
	_, err := runCLI(t, t.TempDir(), "--workspace", "../escape", "collections")
	if err == nil {
		t.Fatal("collections with bad workspace key succeeded")
	}
}

func TestVersionCommand(t *testing.T) {
	captureStatus(t)
	out, err := runCLI(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "version: ") {
		t.Errorf("version output = %q", out)
	}
}

func TestCollectionPickerModel(t *testing.T) {
	m := NewCollectionPickerModel([]plugin.CollectionSummary{
		{ID: "c1", Name: "Base"},
		{ID: "c2", Name: "Tokens"},
		{ID: "c3", Name: "Spacing"},
	})
	press := func(m tea.Model, keys ...string) tea.Model {
		for _, k := range keys {
			var msg tea.KeyMsg
			switch k {
			case "down":
				msg = tea.KeyMsg{Type: tea.KeyDown}
			case "enter":
				msg = tea.KeyMsg{Type: tea.KeyEnter}
			default:
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
			}
			m, _ = m.Update(msg)
		}
		return m
	}

	got := press(m, "down", "x", "enter").(CollectionPickerModel)
	if !got.Confirmed {
		t.Fatal("picker not confirmed after enter")
	}
	if diff := cmp.Diff([]string{"c1", "c3"}, got.Selected()); diff != "" {
		t.Errorf("Selected() mismatch (-want +got):\n%s", diff)
	}

	got = press(NewCollectionPickerModel(m.Collections), "a").(CollectionPickerModel)
	if len(got.Selected()) != 0 {
		t.Errorf("after toggling all, Selected() = %v, want none", got.Selected())
	}

	got = press(NewCollectionPickerModel(m.Collections), "q").(CollectionPickerModel)
	if got.Confirmed {
		t.Error("picker confirmed after q")
	}
	if !strings.Contains(got.View(), "3 of 3 selected") {
		t.Errorf("View() = %q, want selection count", got.View())
	}
}
