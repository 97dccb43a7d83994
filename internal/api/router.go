// Package api exposes the kernel's dispatcher over HTTP: a single
// command endpoint mirroring the teacher's JSON-RPC dispatch-by-method
// shape, plus an SSE stream for filesystem-watcher events.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ternarybob/syntari-kernel/internal/config"
	"github.com/ternarybob/syntari-kernel/internal/dispatch"
)

// version is set via -ldflags at build time.
var version = "dev"

// SetVersion sets the version string reported by /version.
func SetVersion(v string) { version = v }

// Server is the kernel's HTTP transport.
type Server struct {
	cfg    *config.Config
	disp   *dispatch.Dispatcher
	router chi.Router
}

// NewServer builds a Server wired to disp and configured from cfg.
func NewServer(cfg *config.Config, disp *dispatch.Dispatcher) *Server {
	s := &Server{cfg: cfg, disp: disp}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(s.cfg.API.RequestTimeout) * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.API.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.cfg.API.APIKey != "" {
		r.Use(s.apiKeyAuth)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Post("/command", s.handleCommand)
	r.Get("/events", s.handleEvents)

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// apiKeyAuth validates the X-API-Key header (or api_key query param)
// against the configured key, exempting health/version.
func (s *Server) apiKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/version" {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}
		if apiKey != s.cfg.API.APIKey {
			writeJSON(w, http.StatusUnauthorized, dispatch.Fail(unauthorizedErr{}))
			return
		}

		next.ServeHTTP(w, r)
	})
}

type unauthorizedErr struct{}

func (unauthorizedErr) Error() string { return "invalid or missing API key" }
