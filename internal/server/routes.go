package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/exporter"
	"github.com/matzehuels/varbridge/pkg/plugin"
	"github.com/matzehuels/varbridge/pkg/render/aliasgraph"
)

// maxBody caps request bodies.
const maxBody = 16 << 20

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, s.handler.Handle(r.Context(), plugin.Request{Type: plugin.TypeListCollections}))
}

func (s *Server) listModes(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, s.handler.Handle(r.Context(), plugin.Request{
		Type:         plugin.TypeListModes,
		CollectionID: chi.URLParam(r, "id"),
	}))
}

func (s *Server) deleteAll(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, s.handler.Handle(r.Context(), plugin.Request{Type: plugin.TypeDeleteAll}))
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, s.handler.Handle(r.Context(), plugin.Request{
		Type:         plugin.TypePreviewMode,
		CollectionID: chi.URLParam(r, "id"),
		ModeID:       chi.URLParam(r, "modeId"),
	}))
}

// importDocument takes the portable document as the request body.
func (s *Server) importDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeResponse(w, plugin.NewErrorResponse(errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")))
		return
	}
	writeResponse(w, s.handler.Handle(r.Context(), plugin.Request{Type: plugin.TypeImport, Data: string(body)}))
}

// export takes an optional {selectedCollections, useHexRef} body and
// answers with the exported document itself.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	req := plugin.Request{}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err == nil && len(body) > 0 {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		writeResponse(w, plugin.NewErrorResponse(errors.Wrap(errors.ErrCodeInvalidInput, err, "decode export options")))
		return
	}
	req.Type = plugin.TypeExport

	resp := s.handler.Handle(r.Context(), req)
	data, ok := resp.(plugin.DataResponse)
	if !ok {
		writeResponse(w, resp)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="variables.json"`)
	_, _ = io.WriteString(w, data.Data)
}

func (s *Server) template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(plugin.Template())
}

func (s *Server) graphDOT(w http.ResponseWriter, r *http.Request) {
	dot, err := s.aliasDOT(r)
	if err != nil {
		writeResponse(w, plugin.NewErrorResponse(err))
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = io.WriteString(w, dot)
}

func (s *Server) graphSVG(w http.ResponseWriter, r *http.Request) {
	dot, err := s.aliasDOT(r)
	if err != nil {
		writeResponse(w, plugin.NewErrorResponse(err))
		return
	}
	svg, err := aliasgraph.RenderSVG(r.Context(), dot)
	if err != nil {
		writeResponse(w, plugin.NewErrorResponse(errors.Wrap(errors.ErrCodeInternal, err, "render graph")))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) aliasDOT(r *http.Request) (string, error) {
	doc, err := exporter.Export(r.Context(), s.store, exporter.Options{Logger: s.logger})
	if err != nil {
		return "", err
	}
	return aliasgraph.ToDOT(doc, aliasgraph.Options{Detailed: r.URL.Query().Get("detailed") == "true"}), nil
}
