// Package preview draws the colors of one collection mode as a canvas frame.
//
// Each COLOR variable becomes a row holding a square swatch filled with the
// variable's resolved color and a text label with the variable name. Aliased
// colors are followed to their direct value first.
package preview

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/varbridge/pkg/alias"
	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/variables"
)

// Frame geometry.
const (
	FrameWidth  = 400
	RowHeight   = 50
	Padding     = 10
	SwatchSize  = 30
	LabelOffset = 50
	labelDrop   = 7
)

// Rows returns the swatch rows of collectionID in mode modeID, in variable
// order. Variables that are not COLOR are left out.
func Rows(ctx context.Context, store host.Store, collectionID, modeID string) (*host.Collection, host.Mode, []Row, error) {
	c, err := store.GetCollection(ctx, collectionID)
	if err != nil {
		if stderrors.Is(err, host.ErrNotFound) {
			return nil, host.Mode{}, nil, errors.Wrap(errors.ErrCodeUnknownCollection, err, "preview")
		}
		return nil, host.Mode{}, nil, err
	}
	mode, ok := c.ModeByID(modeID)
	if !ok {
		return nil, host.Mode{}, nil, errors.New(errors.ErrCodeUnknownMode, "collection %q has no mode %s", c.Name, modeID)
	}

	vars, err := store.ListVariables(ctx, c.ID)
	if err != nil {
		return nil, host.Mode{}, nil, err
	}
	var rows []Row
	for _, v := range vars {
		if v.Type != variables.TypeColor {
			continue
		}
		val, ok := v.Values[mode.ID]
		if !ok {
			continue
		}
		color, err := alias.ResolveColor(ctx, store, val, mode)
		if err != nil {
			return nil, host.Mode{}, nil, errors.Annotate(err, errors.ErrCodeInternal, "variable %q", v.Name)
		}
		rows = append(rows, Row{Name: v.Name, Color: color})
	}
	return c, mode, rows, nil
}

// Row is one previewed variable.
type Row struct {
	Name  string
	Color variables.ColorValue
}

// Layout lays rows out as a frame named "<collection> - <mode>".
func Layout(collection, mode string, rows []Row) host.Frame {
	f := host.Frame{
		Name:     fmt.Sprintf("%s - %s", collection, mode),
		Width:    FrameWidth,
		Height:   float64(len(rows)*RowHeight + 2*Padding),
		Children: make([]host.Node, 0, 2*len(rows)),
	}
	y := float64(Padding)
	for _, r := range rows {
		f.Children = append(f.Children,
			host.Node{Kind: host.NodeRect, X: Padding, Y: y, Width: SwatchSize, Height: SwatchSize, Fill: r.Color},
			host.Node{Kind: host.NodeText, X: LabelOffset, Y: y + labelDrop, Text: r.Name},
		)
		y += RowHeight
	}
	return f
}

// FrameForMode creates a preview frame for one mode of a collection on canvas
// and returns the frame id.
func FrameForMode(ctx context.Context, store host.Store, canvas host.Canvas, collectionID, modeID string) (string, error) {
	c, mode, rows, err := Rows(ctx, store, collectionID, modeID)
	if err != nil {
		return "", err
	}
	id, err := canvas.CreateFrame(ctx, Layout(c.Name, mode.Name, rows))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeHostMutation, err, "create frame")
	}
	return id, nil
}
