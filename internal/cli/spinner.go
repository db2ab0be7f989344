package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line while a command runs. It stops on its
// own when the command context ends.
type spinner struct {
	out    io.Writer
	label  string
	parent context.Context
	ctx    context.Context

	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once
}

// startSpinner draws label on the status stream until stop or ctx ends.
func startSpinner(parent context.Context, label string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	s := &spinner{out: statusOut, label: label, parent: parent, ctx: ctx, cancel: cancel, exited: make(chan struct{})}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	for n := 0; ; n++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(spinnerFrames[n%len(spinnerFrames)]), StyleDim.Render(s.label))
		}
	}
}

func (s *spinner) clear() {
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.label)+4))
}

// stop ends the animation and clears the line. Repeated calls are no-ops.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.exited
	})
}

// succeed stops and prints a success line.
func (s *spinner) succeed(format string, args ...any) {
	s.stop()
	printSuccess(format, args...)
}

// fail stops and prints an error line.
func (s *spinner) fail(format string, args ...any) {
	s.stop()
	printError(format, args...)
}

// interrupted reports whether the command context ended, as opposed to a
// call to stop.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
