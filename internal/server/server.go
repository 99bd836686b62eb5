// Package server exposes the referee over HTTP and WebSocket.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayusman/rpsref/internal/referee"
	"github.com/ayusman/rpsref/internal/server/api"
	"github.com/ayusman/rpsref/internal/store"
)

// Engine is the running referee loop as seen from HTTP handlers.
type Engine interface {
	Snapshot() referee.Snapshot
	LatestJPEG() []byte
	Submit(cmd referee.Command) error
	Subscribe() (<-chan referee.Snapshot, func())
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Engine    Engine

	// CheckSetting validates a settings override before it is stored.
	CheckSetting func(key, value string) error

	// StreamInterval is the MJPEG frame period. Defaults to ~15 FPS.
	StreamInterval time.Duration
}

// Server is the HTTP front end.
type Server struct {
	config Config
	router *mux.Router
	start  time.Time
}

// New creates a Server and registers its routes.
func New(config Config) *Server {
	if config.StreamInterval <= 0 {
		config.StreamInterval = 66 * time.Millisecond
	}
	s := &Server{
		config: config,
		router: mux.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	if s.config.Engine != nil {
		r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
		r.HandleFunc("/api/commands", s.handleCommand).Methods(http.MethodPost)
		r.Handle("/api/stream", NewStreamHandler(s.config.Engine, s.config.StreamInterval)).Methods(http.MethodGet)
		r.Handle("/api/events", NewEventsHandler(s.config.Engine)).Methods(http.MethodGet)
	}

	if s.config.Store != nil {
		api.NewSettingsHandler(s.config.Store.Settings(), s.config.CheckSetting).Register(r)
	}

	if s.config.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return s.HTTPServer(addr).ListenAndServe()
}

// HTTPServer returns an http.Server for addr with this handler, for callers
// that need Shutdown.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
