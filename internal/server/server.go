// Package server implements the HTTP endpoints: Prometheus exposition,
// health, and the latest-state JSON API.
package server

import (
	"net/http"

	"github.com/woozymasta/hlds-exporter/internal/storage"
)

// Server holds the handlers' dependencies.
type Server struct {
	// metrics serves the Prometheus exposition format.
	metrics http.Handler

	// store is the optional snapshot repository; nil when persistence is
	// disabled, which turns /api/servers into a 404.
	store *storage.Repository
}

// New creates a Server instance with the provided metrics handler and
// optional snapshot store.
func New(metrics http.Handler, store *storage.Repository) *Server {
	return &Server{
		metrics: metrics,
		store:   store,
	}
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", s.metrics)
	mux.Handle("/healthz", http.HandlerFunc(s.handleHealth))
	mux.Handle("/api/servers", http.HandlerFunc(s.handleServers))

	return LoggingMiddleware(mux)
}
