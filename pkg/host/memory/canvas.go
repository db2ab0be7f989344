package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/varbridge/pkg/host"
)

// Canvas records created frames.
type Canvas struct {
	mu     sync.Mutex
	frames []host.Frame
}

var _ host.Canvas = (*Canvas)(nil)

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

func (c *Canvas) CreateFrame(ctx context.Context, f host.Frame) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return fmt.Sprintf("frame:%d", len(c.frames)), nil
}

// Frames returns the frames created so far, oldest first.
func (c *Canvas) Frames() []host.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.frames)
}
