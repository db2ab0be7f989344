package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/varbridge/pkg/observability"
)

// logHooks reports conversion, workspace and command events at debug level.
type logHooks struct {
	logger *log.Logger
}

func installHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetConversionHooks(h)
	observability.SetWorkspaceHooks(h)
	observability.SetCommandHooks(h)
}

func (h *logHooks) OnImportStart(_ context.Context, collections int) {
	h.logger.Debug("import started", "collections", collections)
}

func (h *logHooks) OnImportComplete(_ context.Context, created int, d time.Duration, err error) {
	h.logger.Debug("import finished", "created", created, "took", d.Round(time.Millisecond), "err", err)
}

func (h *logHooks) OnExportStart(_ context.Context, collections int) {
	h.logger.Debug("export started", "selected", collections)
}

func (h *logHooks) OnExportComplete(_ context.Context, variables int, d time.Duration, err error) {
	h.logger.Debug("export finished", "variables", variables, "took", d.Round(time.Millisecond), "err", err)
}

func (h *logHooks) OnLoad(_ context.Context, backend string, size int, err error) {
	h.logger.Debug("workspace load", "backend", backend, "bytes", size, "err", err)
}

func (h *logHooks) OnSave(_ context.Context, backend string, size int, err error) {
	h.logger.Debug("workspace save", "backend", backend, "bytes", size, "err", err)
}

func (h *logHooks) OnCommand(_ context.Context, msgType string, d time.Duration, err error) {
	h.logger.Debug("command", "type", msgType, "took", d.Round(time.Millisecond), "err", err)
}

var (
	_ observability.ConversionHooks = (*logHooks)(nil)
	_ observability.WorkspaceHooks  = (*logHooks)(nil)
	_ observability.CommandHooks    = (*logHooks)(nil)
)
