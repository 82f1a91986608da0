// Package mockapi serves a development positions API. It returns a fixture
// array and can inject failures so the client's retry path can be exercised
// without a real backend.
package mockapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

//go:embed fixtures/positions.json
var embeddedFixture []byte

// Config holds mock server configuration
type Config struct {
	Log        zerolog.Logger
	Port       int
	Fixture    []byte // Raw JSON body served on success; nil uses the embedded fixture
	FailStatus int    // Status returned for the first FailTimes position requests
	FailTimes  int
	DevMode    bool
}

// Server is the mock positions API
type Server struct {
	router     *chi.Mux
	server     *http.Server
	log        zerolog.Logger
	fixture    []byte
	failStatus int
	failTimes  int64
	requests   atomic.Int64
}

// LoadFixture reads a fixture file, or returns the embedded fixture for an empty path.
// The file must contain valid JSON; it is served verbatim.
func LoadFixture(path string) ([]byte, error) {
	if path == "" {
		return embeddedFixture, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("fixture %s is not valid JSON", path)
	}
	return data, nil
}

// New creates a mock server
func New(cfg Config) *Server {
	fixture := cfg.Fixture
	if fixture == nil {
		fixture = embeddedFixture
	}

	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "mockapi").Logger(),
		fixture:    fixture,
		failStatus: cfg.FailStatus,
		failTimes:  int64(cfg.FailTimes),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// The original app is browser-loaded, so keep the API callable cross-origin
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/positions", s.handlePositions)
	})
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Requests returns how many position requests have been served
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Mock positions API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("mock server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handlePositions serves the fixture. Query overrides for manual testing:
//
//	?status=503      respond with that status instead
//	?shape=object    wrap the array in an object (malformed for the client)
//	?delay=3s        sleep before responding
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	n := s.requests.Add(1)

	if d, err := time.ParseDuration(r.URL.Query().Get("delay")); err == nil && d > 0 {
		select {
		case <-time.After(d):
		case <-r.Context().Done():
			return
		}
	}

	if s.failStatus > 0 && n <= s.failTimes {
		s.writeError(w, s.failStatus)
		return
	}
	if status, err := strconv.Atoi(r.URL.Query().Get("status")); err == nil && status >= 400 {
		s.writeError(w, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("shape") == "object" {
		_, _ = fmt.Fprintf(w, `{"positions":%s}`, s.fixture)
		return
	}
	_, _ = w.Write(s.fixture)
}

func (s *Server) writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status)})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
