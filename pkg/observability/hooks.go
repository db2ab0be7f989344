// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about conversions, workspace persistence and UI commands.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetConversionHooks(&myConversionHooks{})
//	    observability.SetWorkspaceHooks(&myWorkspaceHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Conversion().OnImportStart(ctx, len(doc.Collections))
//	// ... materialize ...
//	observability.Conversion().OnImportComplete(ctx, created, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Conversion Hooks
// =============================================================================

// ConversionHooks receives events from the import and export pipelines.
type ConversionHooks interface {
	OnImportStart(ctx context.Context, collections int)
	OnImportComplete(ctx context.Context, created int, duration time.Duration, err error)

	// OnExportStart receives the number of collections being exported,
	// after the selection is resolved.
	OnExportStart(ctx context.Context, collections int)
	OnExportComplete(ctx context.Context, variables int, duration time.Duration, err error)
}

// =============================================================================
// Workspace Hooks
// =============================================================================

// WorkspaceHooks receives events from workspace snapshot backends.
type WorkspaceHooks interface {
	// OnLoad records a snapshot read. size is 0 when nothing was stored.
	OnLoad(ctx context.Context, backend string, size int, err error)

	// OnSave records a snapshot write.
	OnSave(ctx context.Context, backend string, size int, err error)
}

// =============================================================================
// Command Hooks
// =============================================================================

// CommandHooks receives events from the UI message handler.
type CommandHooks interface {
	// OnCommand records one handled message.
	OnCommand(ctx context.Context, msgType string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopConversionHooks is a no-op implementation of ConversionHooks.
type NoopConversionHooks struct{}

func (NoopConversionHooks) OnImportStart(context.Context, int)                           {}
func (NoopConversionHooks) OnImportComplete(context.Context, int, time.Duration, error) {}
func (NoopConversionHooks) OnExportStart(context.Context, int)                           {}
func (NoopConversionHooks) OnExportComplete(context.Context, int, time.Duration, error) {}

// NoopWorkspaceHooks is a no-op implementation of WorkspaceHooks.
type NoopWorkspaceHooks struct{}

func (NoopWorkspaceHooks) OnLoad(context.Context, string, int, error) {}
func (NoopWorkspaceHooks) OnSave(context.Context, string, int, error) {}

// NoopCommandHooks is a no-op implementation of CommandHooks.
type NoopCommandHooks struct{}

func (NoopCommandHooks) OnCommand(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	conversionHooks ConversionHooks = NoopConversionHooks{}
	workspaceHooks  WorkspaceHooks  = NoopWorkspaceHooks{}
	commandHooks    CommandHooks    = NoopCommandHooks{}
	hooksMu         sync.RWMutex
)

// SetConversionHooks registers custom conversion hooks.
// This should be called once at application startup before any conversion.
func SetConversionHooks(h ConversionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		conversionHooks = h
	}
}

// SetWorkspaceHooks registers custom workspace hooks.
func SetWorkspaceHooks(h WorkspaceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		workspaceHooks = h
	}
}

// SetCommandHooks registers custom command hooks.
func SetCommandHooks(h CommandHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		commandHooks = h
	}
}

// Conversion returns the registered conversion hooks.
func Conversion() ConversionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return conversionHooks
}

// Workspace returns the registered workspace hooks.
func Workspace() WorkspaceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return workspaceHooks
}

// Command returns the registered command hooks.
func Command() CommandHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return commandHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	conversionHooks = NoopConversionHooks{}
	workspaceHooks = NoopWorkspaceHooks{}
	commandHooks = NoopCommandHooks{}
}
