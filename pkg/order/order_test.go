package order

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/varbridge/pkg/document"
	"github.com/matzehuels/varbridge/pkg/errors"
)

func alias(col, v string) document.Value {
	return document.Alias{Collection: col, Mode: "M", Variable: v}
}

func variable(name string, vals ...document.Value) document.Variable {
	v := document.Variable{Name: name, Type: "COLOR"}
	for _, val := range vals {
		v.Values = append(v.Values, document.ModeValue{Mode: "M", Value: val})
	}
	return v
}

func collection(name string, vars ...document.Variable) document.Collection {
	return document.Collection{Name: name, Modes: []string{"M"}, Variables: vars}
}

func names(cols []document.Collection) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

func TestAliasesLast(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"empty", nil, []int{}},
		{"all direct", []int{2, 4}, []int{2, 4}},
		{"all aliased", []int{1, 3}, []int{1, 3}},
		{"mixed", []int{1, 2, 3, 4, 6, 5}, []int{2, 4, 6, 1, 3, 5}},
	}
	odd := func(n int) bool { return n%2 == 1 }

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AliasesLast(tt.in, odd)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AliasesLast() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollectionsOrderIndependence(t *testing.T) {
	base := collection("Base", variable("Primary", document.Hex("#18A0FB")))
	tokens := collection("Tokens", variable("Button", alias("Base", "Primary")))

	for _, in := range [][]document.Collection{{base, tokens}, {tokens, base}} {
		got := names(Collections(&document.Document{Collections: in}))
		if diff := cmp.Diff([]string{"Base", "Tokens"}, got); diff != "" {
			t.Errorf("Collections() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestCollectionsAliasChain(t *testing.T) {
	base := collection("Base", variable("Primary", document.Hex("#18A0FB")))
	semantic := collection("Semantic", variable("Accent", alias("Base", "Primary")))
	component := collection("Component", variable("Button", alias("Semantic", "Accent")))

	doc := &document.Document{Collections: []document.Collection{component, semantic, base}}
	got := names(Collections(doc))
	if diff := cmp.Diff([]string{"Base", "Semantic", "Component"}, got); diff != "" {
		t.Errorf("Collections() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectionsMutualReferenceKeepsOrder(t *testing.T) {
	a := collection("A", variable("x", document.Hex("#000000")), variable("y", alias("B", "p")))
	b := collection("B", variable("p", document.Hex("#FFFFFF")), variable("q", alias("A", "x")))

	got := names(Collections(&document.Document{Collections: []document.Collection{b, a}}))
	if diff := cmp.Diff([]string{"B", "A"}, got); diff != "" {
		t.Errorf("Collections() mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphCycles(t *testing.T) {
	tests := []struct {
		name    string
		cols    []document.Collection
		wantErr bool
	}{
		{"acyclic", []document.Collection{
			collection("A", variable("x", document.Hex("#000000")), variable("y", alias("A", "x"))),
		}, false},
		{"self loop", []document.Collection{
			collection("A", variable("x", alias("A", "x"))),
		}, true},
		{"two collections", []document.Collection{
			collection("A", variable("x", alias("B", "y"))),
			collection("B", variable("y", alias("A", "x"))),
		}, true},
		{"three hop", []document.Collection{
			collection("A", variable("a", alias("A", "b")), variable("b", alias("A", "c")), variable("c", alias("A", "a"))),
		}, true},
		{"external target", []document.Collection{
			collection("A", variable("x", alias("Stored", "y"))),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewGraph(&document.Document{Collections: tt.cols}).Cycles()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Cycles() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeCyclicAlias) {
				t.Errorf("Cycles() code = %v", errors.GetCode(err))
			}
		})
	}
}

func TestGraphCycleMessage(t *testing.T) {
	doc := &document.Document{Collections: []document.Collection{
		collection("A", variable("x", alias("B", "y"))),
		collection("B", variable("y", alias("A", "x"))),
	}}
	err := NewGraph(doc).Cycles()
	if got, want := errors.UserMessage(err), "alias cycle: A/x -> B/y -> A/x"; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestGraphTopological(t *testing.T) {
	// c -> b -> a (direct), d independent; declared in reverse order.
	doc := &document.Document{Collections: []document.Collection{
		collection("X",
			variable("c", alias("X", "b")),
			variable("d", alias("X", "a")),
			variable("b", alias("X", "a")),
			variable("a", document.Hex("#000000")),
		),
	}}

	got, err := NewGraph(doc).Topological()
	if err != nil {
		t.Fatalf("Topological() error: %v", err)
	}
	want := []Ref{{"X", "d"}, {"X", "b"}, {"X", "c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Topological() mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphEdges(t *testing.T) {
	doc := &document.Document{Collections: []document.Collection{
		collection("A", variable("x", document.Hex("#000000"))),
		collection("B", variable("y", alias("A", "x"), alias("A", "x"))),
	}}
	g := NewGraph(doc)

	want := []Edge{{From: Ref{"B", "y"}, To: Ref{"A", "x"}}}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
	if !g.IsAliased(Ref{"B", "y"}) || g.IsAliased(Ref{"A", "x"}) {
		t.Error("IsAliased() wrong")
	}
	if len(g.Nodes()) != 2 {
		t.Errorf("len(Nodes()) = %d, want 2", len(g.Nodes()))
	}
}
