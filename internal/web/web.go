// Package web serves the generated calendar files over HTTP so the output
// directory can be consumed directly by calendar clients.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"holcal/internal/config"
	appLog "holcal/internal/log"
)

// Server exposes the output directory plus a health endpoint.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/", http.FileServer(http.Dir(s.cfg.OutputDir)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// StartServer runs an HTTP server bound to cfg.Listen until ctx is
// canceled, then shuts it down gracefully.
func StartServer(ctx context.Context, cfg *config.Config) error {
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: NewServer(cfg).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen, "dir", cfg.OutputDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
