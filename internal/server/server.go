// Package server exposes the bot's read-only HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"translatebot/internal/domain"

	"go.uber.org/zap"
)

const (
	MetadataPath = "/.well-known/agent-metadata.json"
	HealthPath   = "/healthz"
)

// Server serves bot metadata and health checks. Extra handlers, such as the
// Mattermost slash-command webhook, can be mounted before Start.
type Server struct {
	metadata domain.Metadata
	mux      *http.ServeMux
	http     *http.Server
	logger   *zap.Logger
}

// New creates a server listening on addr
func New(addr string, metadata domain.Metadata, logger *zap.Logger) *Server {
	s := &Server{
		metadata: metadata,
		mux:      http.NewServeMux(),
		logger:   logger,
	}
	s.mux.HandleFunc(MetadataPath, getOnly(s.handleMetadata))
	s.mux.HandleFunc(HealthPath, getOnly(s.handleHealth))

	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Mount registers an additional handler
func (s *Server) Mount(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves in the background
func (s *Server) Start() {
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
}

// Shutdown stops accepting requests and waits for active ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleMetadata(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.metadata, s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, s.logger)
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}
