// Package server provides the HTTP server for the sparkler effect app:
// the MJPEG stream, the effect-state WebSocket, the recordings API and the
// metrics endpoint.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/phuljhari/internal/app"
	"github.com/ayusman/phuljhari/internal/metrics"
	"github.com/ayusman/phuljhari/internal/server/api"
	"github.com/ayusman/phuljhari/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Frames    *app.FrameHub
	States    *app.StateHub
	Recorder  api.RecordingController
}

// Server represents the HTTP server for the application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/metrics", metrics.Handler())

	if s.config.Store != nil {
		recHandler := api.NewRecordingsHandler(s.config.Store, s.config.Recorder)
		s.mux.Handle("/api/recordings", recHandler)
		s.mux.Handle("/api/recordings/", recHandler)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.States != nil {
		s.mux.Handle("/api/effect", NewEffectHandler(s.config.States))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
