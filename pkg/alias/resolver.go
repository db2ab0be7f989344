// Package alias translates between symbolic alias references used by the
// portable document and native alias values held by a host store.
//
// A symbolic reference names a collection, a variable and the mode it was
// authored against. A native alias only carries the target variable's id:
// it points at the variable as a whole, and reading it back yields whatever
// the target holds in the mode currently being evaluated.
//
// A [Resolver] indexes one store by name. It is built at the start of a
// command and dropped at the end; objects created while the command runs
// are added with [Resolver.TrackCollection] and [Resolver.TrackVariable].
package alias

import (
	"context"
	"fmt"

	"github.com/matzehuels/varbridge/pkg/document"
	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/variables"
)

// Resolver resolves alias references against a name index of a store.
type Resolver struct {
	collections map[string]*host.Collection // by name
	colByID     map[string]*host.Collection
	vars        map[string]map[string]*host.Variable // collection id -> name
	varByID     map[string]*host.Variable
}

// NewResolver indexes every collection and variable of store.
func NewResolver(ctx context.Context, store host.Store) (*Resolver, error) {
	r := &Resolver{
		collections: make(map[string]*host.Collection),
		colByID:     make(map[string]*host.Collection),
		vars:        make(map[string]map[string]*host.Variable),
		varByID:     make(map[string]*host.Variable),
	}

	cols, err := store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	for _, c := range cols {
		r.TrackCollection(c)
		vars, err := store.ListVariables(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("list variables of %q: %w", c.Name, err)
		}
		for _, v := range vars {
			r.TrackVariable(v)
		}
	}
	return r, nil
}

// TrackCollection adds or refreshes c in the index.
func (r *Resolver) TrackCollection(c *host.Collection) {
	if old, ok := r.colByID[c.ID]; ok && old.Name != c.Name {
		delete(r.collections, old.Name)
	}
	r.collections[c.Name] = c
	r.colByID[c.ID] = c
	if _, ok := r.vars[c.ID]; !ok {
		r.vars[c.ID] = make(map[string]*host.Variable)
	}
}

// TrackVariable adds or refreshes v in the index.
func (r *Resolver) TrackVariable(v *host.Variable) {
	byName, ok := r.vars[v.CollectionID]
	if !ok {
		byName = make(map[string]*host.Variable)
		r.vars[v.CollectionID] = byName
	}
	byName[v.Name] = v
	r.varByID[v.ID] = v
}

// Collection returns the collection called name.
func (r *Resolver) Collection(name string) (*host.Collection, bool) {
	c, ok := r.collections[name]
	return c, ok
}

// CollectionByID returns the collection with the given id.
func (r *Resolver) CollectionByID(id string) (*host.Collection, bool) {
	c, ok := r.colByID[id]
	return c, ok
}

// Variable returns the variable called name in a collection.
func (r *Resolver) Variable(collectionID, name string) (*host.Variable, bool) {
	v, ok := r.vars[collectionID][name]
	return v, ok
}

// VariableByID returns the variable with the given id.
func (r *Resolver) VariableByID(id string) (*host.Variable, bool) {
	v, ok := r.varByID[id]
	return v, ok
}

// Target looks up the variable a symbolic reference names. When ref.Mode is
// set it must be a mode of the target collection.
func (r *Resolver) Target(ref document.Alias) (*host.Variable, error) {
	c, ok := r.collections[ref.Collection]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownCollection, "collection %q not found", ref.Collection)
	}
	if ref.Mode != "" {
		if _, ok := c.ModeByName(ref.Mode); !ok {
			return nil, errors.New(errors.ErrCodeUnknownMode, "mode %q not found in collection %q", ref.Mode, ref.Collection)
		}
	}
	v, ok := r.vars[c.ID][ref.Variable]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownVariable, "variable %q not found in collection %q", ref.Variable, ref.Collection)
	}
	return v, nil
}

// Resolve turns a symbolic reference into a native alias.
func (r *Resolver) Resolve(ref document.Alias) (variables.AliasValue, error) {
	v, err := r.Target(ref)
	if err != nil {
		return variables.AliasValue{}, err
	}
	return variables.AliasValue{VariableID: v.ID}, nil
}

// ModeMatch reports how [Resolver.Symbolic] picked the mode of a reference.
type ModeMatch int

const (
	// ModeMatchExact: the target collection has the source mode itself,
	// which happens for aliases within one collection.
	ModeMatchExact ModeMatch = iota + 1
	// ModeMatchSameName: the target collection has a mode of the same name.
	ModeMatchSameName
	// ModeMatchFirst: nothing matched; the target's first mode was used.
	ModeMatchFirst
)

func (m ModeMatch) String() string {
	switch m {
	case ModeMatchExact:
		return "exact"
	case ModeMatchSameName:
		return "same-name"
	case ModeMatchFirst:
		return "first-mode"
	}
	return "unknown"
}

// Symbolic turns a native alias found under source mode into a symbolic
// reference. The host does not record which mode an alias was authored
// against, so the mode is a best guess; the returned [ModeMatch] says which
// rule produced it. The rules are tried in order:
//
//   - exact: source mode id is a mode of the target collection and the
//     target has a value there (same-collection aliases)
//   - same-name: the target collection has a mode named like the source
//     mode, regardless of recorded values
//   - first: the target collection's default mode
//
// Mode ids are unique per collection, so cross-collection aliases normally
// resolve through the same-name rule, or fall back to the first mode.
func (r *Resolver) Symbolic(source host.Mode, a variables.AliasValue) (document.Alias, ModeMatch, error) {
	target, ok := r.varByID[a.VariableID]
	if !ok {
		return document.Alias{}, 0, errors.New(errors.ErrCodeUnknownVariable, "alias target %s not found", a.VariableID)
	}
	c, ok := r.colByID[target.CollectionID]
	if !ok {
		return document.Alias{}, 0, errors.New(errors.ErrCodeUnknownCollection, "collection %s of %q not found", target.CollectionID, target.Name)
	}

	ref := document.Alias{Collection: c.Name, Variable: target.Name}
	if m, ok := c.ModeByID(source.ID); ok {
		if _, has := target.Values[m.ID]; has {
			ref.Mode = m.Name
			return ref, ModeMatchExact, nil
		}
	}
	if m, ok := c.ModeByName(source.Name); ok {
		ref.Mode = m.Name
		return ref, ModeMatchSameName, nil
	}
	first, ok := c.DefaultMode()
	if !ok {
		return document.Alias{}, 0, errors.New(errors.ErrCodeUnknownMode, "collection %q has no modes", c.Name)
	}
	ref.Mode = first.Name
	return ref, ModeMatchFirst, nil
}

// ResolvedType returns the type an alias to variableID takes on. Host
// variables are typed at creation, so this is the target's own type.
func (r *Resolver) ResolvedType(variableID string) (variables.Type, error) {
	v, ok := r.varByID[variableID]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownVariable, "variable %s not found", variableID)
	}
	return v.Type, nil
}
