package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/keys-i/CreekLink/internal/service"
	"go.uber.org/zap"
)

// Ingestor processes one uplink webhook body.
type Ingestor interface {
	Ingest(ctx context.Context, body []byte) (*service.Result, error)
}

// Server exposes the ingest HTTP surface: a health probe and the uplink
// webhook endpoint.
type Server struct {
	httpServer *http.Server
	ingestor   Ingestor
	logger     *zap.Logger
}

// NewServer creates the HTTP server with /health and /uplink routes.
func NewServer(addr string, ingestor Ingestor, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		ingestor: ingestor,
		logger:   logger,
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /uplink", s.handleUplink)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

func (s *Server) handleUplink(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("failed to read request body", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
		return
	}

	result, err := s.ingestor.Ingest(r.Context(), body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidJSON) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid JSON"})
			return
		}
		s.logger.Error("uplink request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
