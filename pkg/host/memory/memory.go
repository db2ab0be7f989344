// Package memory provides an in-process [host.Store] and [host.Canvas].
//
// The store enforces the same rules a design tool's variable store does:
// names are unique in their scope, values must match the variable type,
// alias targets must have the same type and alias chains may not loop.
// Its full state can be captured with [Store.Snapshot] and brought back with
// [Store.Restore], which is how the CLI and server persist a workspace
// between runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/variables"
)

// Store is a thread-safe in-memory variable store.
type Store struct {
	mu          sync.RWMutex
	order       []string
	collections map[string]*host.Collection
	vars        map[string]*host.Variable
}

var _ host.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		collections: make(map[string]*host.Collection),
		vars:        make(map[string]*host.Variable),
	}
}

func newID(prefix string) string {
	return prefix + ":" + uuid.NewString()
}

// Reset removes every collection and variable.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.collections = make(map[string]*host.Collection)
	s.vars = make(map[string]*host.Variable)
}

// ListCollections returns all collections in creation order.
func (s *Store) ListCollections(ctx context.Context) ([]*host.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*host.Collection, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneCollection(s.collections[id]))
	}
	return out, nil
}

func (s *Store) GetCollection(ctx context.Context, id string) (*host.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[id]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", id, host.ErrNotFound)
	}
	return cloneCollection(c), nil
}

func (s *Store) CreateCollection(ctx context.Context, name string) (*host.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("collection name is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.collections {
		if c.Name == name {
			return nil, fmt.Errorf("collection %q already exists", name)
		}
	}
	c := &host.Collection{
		ID:    newID("collection"),
		Name:  name,
		Modes: []host.Mode{{ID: newID("mode"), Name: host.DefaultModeName}},
	}
	s.collections[c.ID] = c
	s.order = append(s.order, c.ID)
	return cloneCollection(c), nil
}

func (s *Store) RemoveCollection(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[id]
	if !ok {
		return fmt.Errorf("collection %s: %w", id, host.ErrNotFound)
	}
	for _, vid := range c.VariableIDs {
		delete(s.vars, vid)
	}
	delete(s.collections, id)
	s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == id })
	return nil
}

func (s *Store) AddMode(ctx context.Context, collectionID, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("mode name is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collectionID]
	if !ok {
		return "", fmt.Errorf("collection %s: %w", collectionID, host.ErrNotFound)
	}
	if _, dup := c.ModeByName(name); dup {
		return "", fmt.Errorf("collection %q already has mode %q", c.Name, name)
	}

	first := c.Modes[0].ID
	m := host.Mode{ID: newID("mode"), Name: name}
	c.Modes = append(c.Modes, m)
	for _, vid := range c.VariableIDs {
		v := s.vars[vid]
		if val, ok := v.Values[first]; ok {
			v.Values[m.ID] = val
		}
	}
	return m.ID, nil
}

func (s *Store) RenameMode(ctx context.Context, collectionID, modeID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("mode name is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collectionID]
	if !ok {
		return fmt.Errorf("collection %s: %w", collectionID, host.ErrNotFound)
	}
	i := slices.IndexFunc(c.Modes, func(m host.Mode) bool { return m.ID == modeID })
	if i < 0 {
		return fmt.Errorf("mode %s: %w", modeID, host.ErrNotFound)
	}
	if other, dup := c.ModeByName(name); dup && other.ID != modeID {
		return fmt.Errorf("collection %q already has mode %q", c.Name, name)
	}
	c.Modes[i].Name = name
	return nil
}

func (s *Store) RemoveMode(ctx context.Context, collectionID, modeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collectionID]
	if !ok {
		return fmt.Errorf("collection %s: %w", collectionID, host.ErrNotFound)
	}
	i := slices.IndexFunc(c.Modes, func(m host.Mode) bool { return m.ID == modeID })
	if i < 0 {
		return fmt.Errorf("mode %s: %w", modeID, host.ErrNotFound)
	}
	if len(c.Modes) == 1 {
		return fmt.Errorf("cannot remove the only mode of %q", c.Name)
	}
	c.Modes = slices.Delete(c.Modes, i, i+1)
	for _, vid := range c.VariableIDs {
		delete(s.vars[vid].Values, modeID)
	}
	return nil
}

func (s *Store) ListVariables(ctx context.Context, collectionID string) ([]*host.Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", collectionID, host.ErrNotFound)
	}
	out := make([]*host.Variable, 0, len(c.VariableIDs))
	for _, vid := range c.VariableIDs {
		out = append(out, cloneVariable(s.vars[vid]))
	}
	return out, nil
}

func (s *Store) GetVariable(ctx context.Context, id string) (*host.Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vars[id]
	if !ok {
		return nil, fmt.Errorf("variable %s: %w", id, host.ErrNotFound)
	}
	return cloneVariable(v), nil
}

func (s *Store) CreateVariable(ctx context.Context, collectionID, name string, typ variables.Type) (*host.Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("variable name is empty")
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("invalid variable type %d", typ)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", collectionID, host.ErrNotFound)
	}
	for _, vid := range c.VariableIDs {
		if s.vars[vid].Name == name {
			return nil, fmt.Errorf("collection %q already has variable %q", c.Name, name)
		}
	}

	v := &host.Variable{
		ID:           newID("variable"),
		Name:         name,
		CollectionID: c.ID,
		Type:         typ,
		Values:       make(map[string]variables.Value, len(c.Modes)),
	}
	for _, m := range c.Modes {
		v.Values[m.ID] = variables.Zero(typ)
	}
	s.vars[v.ID] = v
	c.VariableIDs = append(c.VariableIDs, v.ID)
	return cloneVariable(v), nil
}

// SetValue assigns val to a variable in one mode. Direct values must match
// the variable type. Alias targets must exist, share the variable type and
// must not lead back to the variable.
func (s *Store) SetValue(ctx context.Context, variableID, modeID string, val variables.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if val == nil {
		return fmt.Errorf("nil value")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vars[variableID]
	if !ok {
		return fmt.Errorf("variable %s: %w", variableID, host.ErrNotFound)
	}
	c := s.collections[v.CollectionID]
	if _, ok := c.ModeByID(modeID); !ok {
		return fmt.Errorf("mode %s of %q: %w", modeID, c.Name, host.ErrNotFound)
	}

	if a, ok := val.(variables.AliasValue); ok {
		target, ok := s.vars[a.VariableID]
		if !ok {
			return fmt.Errorf("alias target %s: %w", a.VariableID, host.ErrNotFound)
		}
		if target.Type != v.Type {
			return fmt.Errorf("alias from %s variable %q to %s variable %q", v.Type, v.Name, target.Type, target.Name)
		}
		if s.reaches(target.ID, v.ID) {
			return fmt.Errorf("alias from %q to %q would create a cycle", v.Name, target.Name)
		}
	} else if t, _ := variables.TypeOf(val); t != v.Type {
		return fmt.Errorf("%s value for %s variable %q", t, v.Type, v.Name)
	}

	v.Values[modeID] = val
	return nil
}

// reaches reports whether following alias values from id ever arrives at
// goal.
func (s *Store) reaches(id, goal string) bool {
	seen := make(map[string]bool)
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == goal {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		v, ok := s.vars[cur]
		if !ok {
			continue
		}
		for _, val := range v.Values {
			if a, ok := val.(variables.AliasValue); ok {
				stack = append(stack, a.VariableID)
			}
		}
	}
	return false
}

// UnsetValue removes the value of a variable in one mode, leaving the mode
// without a value.
func (s *Store) UnsetValue(variableID, modeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vars[variableID]
	if !ok {
		return fmt.Errorf("variable %s: %w", variableID, host.ErrNotFound)
	}
	delete(v.Values, modeID)
	return nil
}

func (s *Store) SetScopes(ctx context.Context, variableID string, scopes []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vars[variableID]
	if !ok {
		return fmt.Errorf("variable %s: %w", variableID, host.ErrNotFound)
	}
	v.Scopes = slices.Clone(scopes)
	return nil
}

func (s *Store) SetDescription(ctx context.Context, variableID, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vars[variableID]
	if !ok {
		return fmt.Errorf("variable %s: %w", variableID, host.ErrNotFound)
	}
	v.Description = description
	return nil
}

func cloneCollection(c *host.Collection) *host.Collection {
	return &host.Collection{
		ID:          c.ID,
		Name:        c.Name,
		Modes:       slices.Clone(c.Modes),
		VariableIDs: slices.Clone(c.VariableIDs),
	}
}

func cloneVariable(v *host.Variable) *host.Variable {
	out := *v
	out.Scopes = slices.Clone(v.Scopes)
	out.Values = make(map[string]variables.Value, len(v.Values))
	for k, val := range v.Values {
		out.Values[k] = val
	}
	return &out
}
