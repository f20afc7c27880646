// Package server exposes the render pipeline and the diagram store over HTTP.
//
// Routes:
//
//	POST   /api/render                 render a spec, respond with the artifact
//	POST   /api/layout                 compute a layout, respond with JSON
//	POST   /api/diagrams               store a spec
//	GET    /api/diagrams               list stored specs, newest first
//	GET    /api/diagrams/{id}          fetch one stored spec
//	GET    /api/diagrams/{id}/render   render a stored spec
//	DELETE /api/diagrams/{id}          delete a stored spec
//	GET    /health                     liveness
//	GET    /metrics                    Prometheus metrics
//
// Write endpoints share one token bucket. Every request gets a fresh scene
// container; nothing rendered is shared between requests.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/archdeck/pkg/pipeline"
	"github.com/matzehuels/archdeck/pkg/store"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultRateLimit    = 10 // write requests per second
	DefaultRateBurst    = 20
	DefaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
)

// Config configures a [Server]. Zero fields take the defaults above.
type Config struct {
	Addr         string
	RateLimit    float64
	RateBurst    int
	MaxBodyBytes int64
	Logger       *log.Logger
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.RateBurst <= 0 {
		c.RateBurst = DefaultRateBurst
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Server is the archdeck HTTP API.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	store   store.Store
	metrics *Metrics
	logger  *log.Logger
	limiter *rate.Limiter
	router  chi.Router
}

// New builds a server. st may be nil, in which case the /api/diagrams routes
// answer 503. metrics may be nil to leave /metrics unmounted.
func New(runner *pipeline.Runner, st store.Store, metrics *Metrics, cfg Config) *Server {
	cfg.setDefaults()
	s := &Server{
		cfg:     cfg,
		runner:  runner,
		store:   st,
		metrics: metrics,
		logger:  cfg.Logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Use(s.limitBody)
			r.Post("/render", s.handleRender)
			r.Post("/layout", s.handleLayout)
			r.Post("/diagrams", s.handleCreateDiagram)
			r.Delete("/diagrams/{id}", s.handleDeleteDiagram)
		})
		r.Get("/diagrams", s.handleListDiagrams)
		r.Get("/diagrams/{id}", s.handleGetDiagram)
		r.Get("/diagrams/{id}/render", s.handleRenderDiagram)
	})
	return r
}

// Handler returns the fully-wrapped http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
