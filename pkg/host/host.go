// Package host defines the interfaces the conversion engine drives: the
// variable store that holds live collections, and the canvas that preview
// frames are drawn on.
//
// Objects are referenced by opaque, host-assigned ids. Names are only
// unique within their scope (collection names globally, mode and variable
// names within a collection) and are what the portable document uses.
//
// The reference implementation lives in package host/memory.
package host

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/varbridge/pkg/variables"
)

// DefaultModeName is the name of the mode a new collection starts with.
const DefaultModeName = "Mode 1"

// ErrNotFound is returned by store lookups for unknown ids.
var ErrNotFound = stderrors.New("not found")

// Mode is a named evaluation context of a collection.
type Mode struct {
	ID   string `json:"modeId"`
	Name string `json:"name"`
}

// Collection is a live variable collection.
type Collection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Modes       []Mode   `json:"modes"`
	VariableIDs []string `json:"variableIds"`
}

// ModeByName returns the mode called name.
func (c *Collection) ModeByName(name string) (Mode, bool) {
	for _, m := range c.Modes {
		if m.Name == name {
			return m, true
		}
	}
	return Mode{}, false
}

// ModeByID returns the mode with the given id.
func (c *Collection) ModeByID(id string) (Mode, bool) {
	for _, m := range c.Modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

// DefaultMode returns the first mode of c.
func (c *Collection) DefaultMode() (Mode, bool) {
	if len(c.Modes) == 0 {
		return Mode{}, false
	}
	return c.Modes[0], true
}

// Variable is a live variable. Values is keyed by mode id; a mode without
// an entry has no value.
type Variable struct {
	ID           string
	Name         string
	CollectionID string
	Type         variables.Type
	Description  string
	Scopes       []string
	Values       map[string]variables.Value
}

// Store is the live collection store. Mutating calls may fail; callers do
// not retry and the store does not roll back.
type Store interface {
	ListCollections(ctx context.Context) ([]*Collection, error)
	GetCollection(ctx context.Context, id string) (*Collection, error)
	// CreateCollection creates an empty collection with the single mode
	// [DefaultModeName].
	CreateCollection(ctx context.Context, name string) (*Collection, error)
	RemoveCollection(ctx context.Context, id string) error

	// AddMode appends a mode and returns its id. Existing variables get the
	// value they hold in the first mode.
	AddMode(ctx context.Context, collectionID, name string) (string, error)
	RenameMode(ctx context.Context, collectionID, modeID, name string) error
	RemoveMode(ctx context.Context, collectionID, modeID string) error

	// ListVariables returns the variables of a collection in creation order.
	ListVariables(ctx context.Context, collectionID string) ([]*Variable, error)
	GetVariable(ctx context.Context, id string) (*Variable, error)
	// CreateVariable creates a variable holding the zero value of typ in
	// every mode.
	CreateVariable(ctx context.Context, collectionID, name string, typ variables.Type) (*Variable, error)
	SetValue(ctx context.Context, variableID, modeID string, v variables.Value) error
	SetScopes(ctx context.Context, variableID string, scopes []string) error
	SetDescription(ctx context.Context, variableID, description string) error
}

// Node is one element of a preview frame.
type Node struct {
	Kind   NodeKind
	X, Y   float64
	Width  float64
	Height float64
	// Fill is set for rectangles.
	Fill variables.ColorValue
	// Text is set for text nodes.
	Text string
}

// NodeKind distinguishes frame children.
type NodeKind int

const (
	NodeRect NodeKind = iota + 1
	NodeText
)

// Frame is a named canvas frame with absolutely positioned children.
type Frame struct {
	Name     string
	Width    float64
	Height   float64
	Children []Node
}

// Canvas receives preview frames.
type Canvas interface {
	// CreateFrame places f on the canvas and returns its id.
	CreateFrame(ctx context.Context, f Frame) (string, error)
}
