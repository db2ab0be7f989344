// Package plugin dispatches UI commands to the conversion engine.
//
// A [Handler] owns one host store and canvas and runs one command at a time.
// Every command builds its name indexes from the live store, so nothing is
// cached between commands. Failures are reported as an [ErrorResponse]
// carrying the user message and the error code; Handle itself never fails.
//
// Requests and responses are JSON objects discriminated by "type". The names
// used by earlier UI builds are accepted as well (see [Canonical]).
package plugin

import (
	"context"
	_ "embed"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/exporter"
	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/importer"
	"github.com/matzehuels/varbridge/pkg/observability"
	"github.com/matzehuels/varbridge/pkg/preview"
)

//go:embed template.json
var template []byte

// Template returns the default template document.
func Template() []byte {
	out := make([]byte, len(template))
	copy(out, template)
	return out
}

// Options configures a Handler.
type Options struct {
	// Logger defaults to log.Default().
	Logger *log.Logger

	// Import is passed to every import. Its Logger defaults to Logger.
	Import importer.Options

	// Commit is called after a command changed the store, including an import
	// that failed part way. A commit error is logged and does not change the
	// response.
	Commit func(ctx context.Context) error
}

// Handler serializes commands against one store.
type Handler struct {
	mu     sync.Mutex
	store  host.Store
	canvas host.Canvas
	opts   Options
}

// NewHandler returns a handler for store. canvas may be nil, in which case
// preview commands fail with UNSUPPORTED.
func NewHandler(store host.Store, canvas host.Canvas, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Import.Logger == nil {
		opts.Import.Logger = opts.Logger
	}
	return &Handler{store: store, canvas: canvas, opts: opts}
}

// HandleJSON decodes one request message, runs it and encodes the response.
func (h *Handler) HandleJSON(ctx context.Context, msg []byte) []byte {
	var req Request
	var resp Response
	if err := json.Unmarshal(msg, &req); err != nil {
		resp = NewErrorResponse(errors.Wrap(errors.ErrCodeInvalidInput, err, "decode message"))
	} else {
		resp = h.Handle(ctx, req)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(NewErrorResponse(errors.Wrap(errors.ErrCodeInternal, err, "encode response")))
	}
	return out
}

// Handle runs one command.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	h.mu.Lock()
	defer h.mu.Unlock()

	typ := Canonical(req.Type)
	start := time.Now()
	resp, err := h.dispatch(ctx, typ, req)
	observability.Command().OnCommand(ctx, typ, time.Since(start), err)
	if err != nil {
		h.opts.Logger.Error("command failed", "type", typ, "code", errors.GetCode(err), "err", err)
		return NewErrorResponse(err)
	}
	h.opts.Logger.Debug("command handled", "type", typ, "response", resp.ResponseType(), "took", time.Since(start))
	return resp
}

func (h *Handler) dispatch(ctx context.Context, typ string, req Request) (Response, error) {
	switch typ {
	case TypeListCollections:
		return h.listCollections(ctx)
	case TypeListModes:
		return h.listModes(ctx, req.CollectionID)
	case TypeImport:
		return h.importDocument(ctx, req.Data)
	case TypeExport:
		return h.export(ctx, req)
	case TypeDeleteAll:
		return h.deleteAll(ctx)
	case TypeGetTemplate:
		return DataResponse{Type: TypeTemplateData, Data: string(template)}, nil
	case TypePreviewMode:
		return h.preview(ctx, req)
	case "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "message has no type")
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown message type %q", req.Type)
	}
}

func (h *Handler) listCollections(ctx context.Context) (Response, error) {
	cols, err := h.store.ListCollections(ctx)
	if err != nil {
		return nil, errors.Annotate(err, errors.ErrCodeInternal, "list collections")
	}
	out := CollectionsResponse{Type: TypeCollections, Collections: make([]CollectionSummary, 0, len(cols))}
	for _, c := range cols {
		out.Collections = append(out.Collections, CollectionSummary{ID: c.ID, Name: c.Name, VariableCount: len(c.VariableIDs)})
	}
	return out, nil
}

func (h *Handler) listModes(ctx context.Context, collectionID string) (Response, error) {
	if collectionID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "collectionId is required")
	}
	c, err := h.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnknownCollection, err, "list modes")
	}
	out := ModesResponse{Type: TypeModes, Modes: make([]ModeSummary, 0, len(c.Modes))}
	for _, m := range c.Modes {
		out.Modes = append(out.Modes, ModeSummary{ModeID: m.ID, Name: m.Name})
	}
	return out, nil
}

func (h *Handler) importDocument(ctx context.Context, data string) (Response, error) {
	if data == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "data is required")
	}
	res, err := importer.ImportJSON(ctx, h.store, []byte(data), h.opts.Import)
	if res.Collections > 0 || res.ModesCreated > 0 || res.Created > 0 || res.ValuesSet > 0 {
		h.commit(ctx)
	}
	if err != nil {
		return nil, err
	}
	return ImportResponse{Type: TypeImportComplete, VariableCount: res.Created}, nil
}

func (h *Handler) export(ctx context.Context, req Request) (Response, error) {
	opts := exporter.Options{Logger: h.opts.Logger}
	if req.UseHexRef != nil && !*req.UseHexRef {
		opts.RawColors = true
	}
	for _, ref := range req.SelectedCollections {
		opts.CollectionIDs = append(opts.CollectionIDs, ref.ID)
	}
	data, err := exporter.ExportJSON(ctx, h.store, opts)
	if err != nil {
		return nil, err
	}
	return DataResponse{Type: TypeExportData, Data: string(data)}, nil
}

func (h *Handler) deleteAll(ctx context.Context) (Response, error) {
	cols, err := h.store.ListCollections(ctx)
	if err != nil {
		return nil, errors.Annotate(err, errors.ErrCodeInternal, "list collections")
	}
	removed := 0
	for _, c := range cols {
		if err := h.store.RemoveCollection(ctx, c.ID); err != nil {
			if removed > 0 {
				h.commit(ctx)
			}
			return nil, errors.Wrap(errors.ErrCodeHostMutation, err, "remove collection %q", c.Name)
		}
		removed++
	}
	if removed > 0 {
		h.commit(ctx)
	}
	h.opts.Logger.Info("deleted collections", "count", removed)
	return DeleteResponse{Type: TypeDeleteComplete, Success: true}, nil
}

func (h *Handler) preview(ctx context.Context, req Request) (Response, error) {
	if h.canvas == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no canvas to draw on")
	}
	if req.CollectionID == "" || req.ModeID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "collectionId and modeId are required")
	}
	id, err := preview.FrameForMode(ctx, h.store, h.canvas, req.CollectionID, req.ModeID)
	if err != nil {
		return nil, err
	}
	return FrameResponse{Type: TypeFrameCreated, FrameID: id}, nil
}

func (h *Handler) commit(ctx context.Context) {
	if h.opts.Commit == nil {
		return
	}
	if err := h.opts.Commit(ctx); err != nil {
		h.opts.Logger.Warn("commit failed", "err", err)
	}
}

// NewErrorResponse converts err into an error response. Errors without a
// code are reported as INTERNAL_ERROR.
func NewErrorResponse(err error) ErrorResponse {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return ErrorResponse{Type: TypeError, Error: errors.UserMessage(err), Code: string(code)}
}
