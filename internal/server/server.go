// Package server exposes spritesheet builds over HTTP.
//
// Routes:
//
//	POST /v1/spritesheets  multipart "files" in, zip of artifacts out
//	GET  /v1/engines       registered engines and their extensions
//	GET  /healthz          liveness
//
// Every request gets a fresh orchestrator; the registry and format tables
// are shared and read-only.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/engine/engines"
	"github.com/matzehuels/spriteflow/pkg/format"
	"github.com/matzehuels/spriteflow/pkg/observability"
)

// Defaults for Config.
const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 32 << 20
	DefaultBuildTimeout   = 60 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr           string
	Registry       *engine.Registry
	Tables         *format.Tables
	Logger         *log.Logger
	Hooks          observability.FlowHooks
	MaxUploadBytes int64
	BuildTimeout   time.Duration
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if c.Tables == nil {
		c.Tables = format.DefaultTables()
	}
	if c.Registry == nil {
		deps := engines.DefaultDeps(c.Logger)
		deps.Tables = c.Tables
		c.Registry = engines.Registry(deps)
	}
	if c.Hooks == nil {
		c.Hooks = observability.NewLogHooks(c.Logger)
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.BuildTimeout <= 0 {
		c.BuildTimeout = DefaultBuildTimeout
	}
}

// Server is the HTTP front end.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a Server with its routes registered.
func New(cfg Config) *Server {
	cfg.SetDefaults()
	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(logging(s.cfg.Logger))
	r.Use(recovery(s.cfg.Logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/engines", s.handleEngines)
		r.Post("/spritesheets", s.handleBuild)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
