package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = prev })
	return &buf
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	buf := captureStatus(t)
	sp := startSpinner(context.Background(), "Exporting collections...")
	time.Sleep(3 * spinnerInterval)
	sp.stop()

	out := buf.String()
	if !strings.Contains(out, "Exporting collections...") {
		t.Errorf("status output = %q, want label", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("status output = %q, want cleared line", out)
	}
	if sp.interrupted() {
		t.Error("stopped spinner reports interrupted")
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	tests := []struct {
		name      string
		timeout   time.Duration
		cancelNow bool
	}{
		{"cancel", time.Hour, true},
		{"timeout", 20 * time.Millisecond, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureStatus(t)
			ctx, cancel := context.WithTimeout(context.Background(), tt.timeout)
			defer cancel()
			sp := startSpinner(ctx, "Importing variables...")
			if tt.cancelNow {
				cancel()
			}

			select {
			case <-sp.exited:
			case <-time.After(time.Second):
				t.Fatal("spinner still running after context ended")
			}
			if !sp.interrupted() {
				t.Error("spinner should report interrupted")
			}
			sp.stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureStatus(t)
	sp := startSpinner(context.Background(), "Importing variables...")
	sp.stop()
	sp.stop()
}

func TestSpinnerSucceedAndFail(t *testing.T) {
	buf := captureStatus(t)
	startSpinner(context.Background(), "Importing variables...").succeed("Imported %d variables", 9)
	startSpinner(context.Background(), "Importing variables...").fail("Import failed")

	out := buf.String()
	for _, want := range []string{"Imported 9 variables", "Import failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output = %q, want %q", out, want)
		}
	}
}
