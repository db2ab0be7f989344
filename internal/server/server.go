// Package server exposes the command handler over HTTP and WebSocket.
//
// The JSON API under /api maps each command to a REST route. The /ws socket
// speaks the raw command protocol: every text message is one request and
// gets exactly one response message.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/host"
	"github.com/matzehuels/varbridge/pkg/plugin"
)

// Config holds HTTP server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config listening on 127.0.0.1:8080.
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves one command handler.
type Server struct {
	config     Config
	router     *chi.Mux
	handler    *plugin.Handler
	store      host.Store
	logger     *log.Logger
	httpServer *http.Server
}

// New builds the router. store is read directly for the alias graph; every
// other route goes through handler.
func New(config Config, handler *plugin.Handler, store host.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{config: config, handler: handler, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Get("/ws", s.serveWS)
	r.Route("/api", func(r chi.Router) {
		r.Get("/collections", s.listCollections)
		r.Delete("/collections", s.deleteAll)
		r.Get("/collections/{id}/modes", s.listModes)
		r.Post("/collections/{id}/modes/{modeId}/preview", s.preview)
		r.Post("/import", s.importDocument)
		r.Post("/export", s.export)
		r.Get("/template", s.template)
		r.Get("/graph.dot", s.graphDOT)
		r.Get("/graph.svg", s.graphSVG)
	})
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", s.config.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("starting server: %w", err)
			return
		}
		errChan <- nil
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server", "timeout", s.config.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return <-errChan
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"took", time.Since(start).Round(time.Microsecond),
				"request_id", chimiddleware.GetReqID(r.Context()))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResponse writes a handler response, choosing the status from the
// error code of error responses.
func writeResponse(w http.ResponseWriter, resp plugin.Response) {
	if e, ok := resp.(plugin.ErrorResponse); ok {
		writeJSON(w, statusFor(errors.Code(e.Code)), e)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeUnknownCollection:
		return http.StatusNotFound
	case errors.ErrCodeInvalidDocument, errors.ErrCodeUnsupportedType, errors.ErrCodeMalformedColor,
		errors.ErrCodeUnknownVariable, errors.ErrCodeUnknownMode, errors.ErrCodeCyclicAlias:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
