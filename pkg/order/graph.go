package order

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/varbridge/pkg/document"
	"github.com/matzehuels/varbridge/pkg/errors"
)

// Ref identifies a variable by collection and variable name.
type Ref struct {
	Collection string
	Variable   string
}

func (r Ref) String() string { return r.Collection + "/" + r.Variable }

// Edge points from an alias-bearing variable to a variable it aliases.
type Edge struct {
	From, To Ref
}

// Graph is the alias dependency graph of a document. Only targets that are
// declared in the same document are nodes; aliases to variables that
// already live in the store add no edge.
type Graph struct {
	nodes    []Ref
	index    map[Ref]int
	aliased  map[Ref]bool
	children map[Ref][]Ref
}

// NewGraph builds the alias dependency graph of doc. Nodes keep document
// order; edges keep mode order and are deduplicated.
func NewGraph(doc *document.Document) *Graph {
	g := &Graph{
		index:    make(map[Ref]int),
		aliased:  make(map[Ref]bool),
		children: make(map[Ref][]Ref),
	}
	for _, c := range doc.Collections {
		for _, v := range c.Variables {
			ref := Ref{Collection: c.Name, Variable: v.Name}
			g.index[ref] = len(g.nodes)
			g.nodes = append(g.nodes, ref)
			if v.HasAlias() {
				g.aliased[ref] = true
			}
		}
	}
	for _, c := range doc.Collections {
		for _, v := range c.Variables {
			from := Ref{Collection: c.Name, Variable: v.Name}
			seen := make(map[Ref]bool)
			for _, a := range v.Aliases() {
				to := Ref{Collection: a.Collection, Variable: a.Variable}
				if _, ok := g.index[to]; !ok || seen[to] {
					continue
				}
				seen[to] = true
				g.children[from] = append(g.children[from], to)
			}
		}
	}
	return g
}

// Nodes returns every variable of the document in document order.
func (g *Graph) Nodes() []Ref {
	return append([]Ref(nil), g.nodes...)
}

// Edges returns every alias edge, ordered by source node.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, from := range g.nodes {
		for _, to := range g.children[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// IsAliased reports whether ref holds an alias in any mode.
func (g *Graph) IsAliased(ref Ref) bool {
	return g.aliased[ref]
}

// Cycles returns CYCLIC_ALIAS_REFERENCE naming the first alias loop found,
// or nil when the graph is acyclic.
func (g *Graph) Cycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[Ref]int, len(g.nodes))
	var stack []Ref
	var loop []Ref

	var dfs func(n Ref) bool
	dfs = func(n Ref) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, child := range g.children[n] {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				for i, s := range stack {
					if s == child {
						loop = append(append([]Ref(nil), stack[i:]...), child)
						break
					}
				}
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, n := range g.nodes {
		if color[n] == white && dfs(n) {
			parts := make([]string, len(loop))
			for i, r := range loop {
				parts[i] = r.String()
			}
			return errors.New(errors.ErrCodeCyclicAlias, "alias cycle: %s", strings.Join(parts, " -> "))
		}
	}
	return nil
}

// Topological returns the alias-bearing variables ordered so that every
// alias target that is itself alias-bearing comes first. Among variables
// with no ordering constraint, document order is kept.
func (g *Graph) Topological() ([]Ref, error) {
	if err := g.Cycles(); err != nil {
		return nil, err
	}

	indegree := make(map[Ref]int)
	parents := make(map[Ref][]Ref)
	for _, n := range g.nodes {
		if !g.aliased[n] {
			continue
		}
		indegree[n] = 0
		for _, child := range g.children[n] {
			if g.aliased[child] {
				indegree[n]++
				parents[child] = append(parents[child], n)
			}
		}
	}

	var ready []Ref
	for _, n := range g.nodes {
		if g.aliased[n] && indegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	out := make([]Ref, 0, len(indegree))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)
		for _, p := range parents[n] {
			indegree[p]--
			if indegree[p] == 0 {
				ready = g.insertByIndex(ready, p)
			}
		}
	}
	if len(out) != len(indegree) {
		return nil, fmt.Errorf("topological order incomplete: %d of %d", len(out), len(indegree))
	}
	return out, nil
}

func (g *Graph) insertByIndex(refs []Ref, r Ref) []Ref {
	i := sort.Search(len(refs), func(i int) bool { return g.index[refs[i]] > g.index[r] })
	refs = append(refs, Ref{})
	copy(refs[i+1:], refs[i:])
	refs[i] = r
	return refs
}
