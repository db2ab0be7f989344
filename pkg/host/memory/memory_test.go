package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/variables"
)

func TestCreateCollectionDefaultMode(t *testing.T) {
	ctx := context.Background()
	s := New()

	c, err := s.CreateCollection(ctx, "Base")
	if err != nil {
		t.Fatalf("CreateCollection() error: %v", err)
	}
	if len(c.Modes) != 1 || c.Modes[0].Name != host.DefaultModeName {
		t.Errorf("Modes = %+v, want single %q", c.Modes, host.DefaultModeName)
	}
	if _, err := s.CreateCollection(ctx, "Base"); err == nil {
		t.Error("CreateCollection(duplicate) expected error")
	}
}

func TestCreateVariableZeroValues(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, _ := s.CreateCollection(ctx, "Base")
	dark, err := s.AddMode(ctx, c.ID, "Dark")
	if err != nil {
		t.Fatalf("AddMode() error: %v", err)
	}

	v, err := s.CreateVariable(ctx, c.ID, "Radius", variables.TypeFloat)
	if err != nil {
		t.Fatalf("CreateVariable() error: %v", err)
	}
	if got := v.Values[dark]; got != variables.FloatValue(0) {
		t.Errorf("Values[dark] = %#v, want 0", got)
	}
	if _, err := s.CreateVariable(ctx, c.ID, "Radius", variables.TypeFloat); err == nil {
		t.Error("CreateVariable(duplicate) expected error")
	}
}

func TestAddModeCopiesFirstModeValue(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, _ := s.CreateCollection(ctx, "Base")
	v, _ := s.CreateVariable(ctx, c.ID, "Size", variables.TypeFloat)
	if err := s.SetValue(ctx, v.ID, c.Modes[0].ID, variables.FloatValue(12)); err != nil {
		t.Fatalf("SetValue() error: %v", err)
	}

	mid, err := s.AddMode(ctx, c.ID, "Large")
	if err != nil {
		t.Fatalf("AddMode() error: %v", err)
	}
	got, _ := s.GetVariable(ctx, v.ID)
	if got.Values[mid] != variables.FloatValue(12) {
		t.Errorf("Values[new mode] = %#v, want 12", got.Values[mid])
	}
}

func TestSetValueRules(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, _ := s.CreateCollection(ctx, "Base")
	mode := c.Modes[0].ID
	color, _ := s.CreateVariable(ctx, c.ID, "Primary", variables.TypeColor)
	link, _ := s.CreateVariable(ctx, c.ID, "Link", variables.TypeColor)
	size, _ := s.CreateVariable(ctx, c.ID, "Size", variables.TypeFloat)

	tests := []struct {
		name    string
		id      string
		mode    string
		val     variables.Value
		wantErr bool
	}{
		{"direct ok", color.ID, mode, variables.ColorValue{R: 1}, false},
		{"type mismatch", color.ID, mode, variables.FloatValue(1), true},
		{"unknown mode", color.ID, "mode:nope", variables.ColorValue{}, true},
		{"unknown variable", "variable:nope", mode, variables.ColorValue{}, true},
		{"alias ok", link.ID, mode, variables.AliasValue{VariableID: color.ID}, false},
		{"alias type mismatch", size.ID, mode, variables.AliasValue{VariableID: color.ID}, true},
		{"alias cycle", color.ID, mode, variables.AliasValue{VariableID: link.ID}, true},
		{"self alias", color.ID, mode, variables.AliasValue{VariableID: color.ID}, true},
		{"dangling alias", link.ID, mode, variables.AliasValue{VariableID: "variable:nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetValue(ctx, tt.id, tt.mode, tt.val)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetValue() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetCollection(ctx, "collection:nope"); !errors.Is(err, host.ErrNotFound) {
		t.Errorf("GetCollection() error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetVariable(ctx, "variable:nope"); !errors.Is(err, host.ErrNotFound) {
		t.Errorf("GetVariable() error = %v, want ErrNotFound", err)
	}
}

func TestRemoveCollection(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.CreateCollection(ctx, "A")
	b, _ := s.CreateCollection(ctx, "B")
	v, _ := s.CreateVariable(ctx, a.ID, "x", variables.TypeString)

	if err := s.RemoveCollection(ctx, a.ID); err != nil {
		t.Fatalf("RemoveCollection() error: %v", err)
	}
	cols, _ := s.ListCollections(ctx)
	if len(cols) != 1 || cols[0].ID != b.ID {
		t.Errorf("ListCollections() = %+v, want only B", cols)
	}
	if _, err := s.GetVariable(ctx, v.ID); err == nil {
		t.Error("variable of removed collection still present")
	}
}

func TestRemoveAndRenameMode(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, _ := s.CreateCollection(ctx, "A")
	first := c.Modes[0].ID

	if err := s.RemoveMode(ctx, c.ID, first); err == nil {
		t.Error("RemoveMode(only mode) expected error")
	}
	second, _ := s.AddMode(ctx, c.ID, "Second")
	if err := s.RenameMode(ctx, c.ID, first, "Second"); err == nil {
		t.Error("RenameMode(duplicate) expected error")
	}
	if err := s.RenameMode(ctx, c.ID, first, "First"); err != nil {
		t.Fatalf("RenameMode() error: %v", err)
	}
	if err := s.RemoveMode(ctx, c.ID, second); err != nil {
		t.Fatalf("RemoveMode() error: %v", err)
	}
	got, _ := s.GetCollection(ctx, c.ID)
	if diff := cmp.Diff([]host.Mode{{ID: first, Name: "First"}}, got.Modes); diff != "" {
		t.Errorf("Modes mismatch (-want +got):\n%s", diff)
	}
}

func TestReturnedObjectsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, _ := s.CreateCollection(ctx, "A")
	c.Modes[0].Name = "mutated"

	got, _ := s.GetCollection(ctx, c.ID)
	if got.Modes[0].Name != host.DefaultModeName {
		t.Errorf("store mutated through returned collection: %q", got.Modes[0].Name)
	}
}

func TestSnapshotRestore(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, _ := s.CreateCollection(ctx, "Base")
	mode := c.Modes[0].ID
	primary, _ := s.CreateVariable(ctx, c.ID, "Primary", variables.TypeColor)
	link, _ := s.CreateVariable(ctx, c.ID, "Link", variables.TypeColor)
	_ = s.SetValue(ctx, primary.ID, mode, variables.ColorValue{R: 0.5, A: variables.Alpha(1)})
	_ = s.SetValue(ctx, link.ID, mode, variables.AliasValue{VariableID: primary.ID})
	_ = s.SetScopes(ctx, primary.ID, []string{"ALL_FILLS"})
	_ = s.SetDescription(ctx, primary.ID, "brand")

	data, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	restored := New()
	if err := restored.Restore(data); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	for _, id := range []string{primary.ID, link.ID} {
		want, _ := s.GetVariable(ctx, id)
		got, err := restored.GetVariable(ctx, id)
		if err != nil {
			t.Fatalf("GetVariable(%s) error: %v", id, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("variable mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	s := New()
	for _, in := range []string{`nope`, `{"version": 99}`} {
		if err := s.Restore([]byte(in)); err == nil {
			t.Errorf("Restore(%s) expected error", in)
		}
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas()
	id, err := c.CreateFrame(context.Background(), host.Frame{Name: "A - Light"})
	if err != nil || id == "" {
		t.Fatalf("CreateFrame() = %q, %v", id, err)
	}
	if frames := c.Frames(); len(frames) != 1 || frames[0].Name != "A - Light" {
		t.Errorf("Frames() = %+v", frames)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().CreateCollection(ctx, "A"); !errors.Is(err, context.Canceled) {
		t.Errorf("CreateCollection() error = %v, want context.Canceled", err)
	}
}
