package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kozaktomas/facegate/internal/config"
	"github.com/kozaktomas/facegate/internal/envelope"
	"github.com/kozaktomas/facegate/internal/facematch"
	"github.com/kozaktomas/facegate/internal/neighborhoods"
	"github.com/kozaktomas/facegate/internal/telemetry"
	"github.com/kozaktomas/facegate/internal/web/middleware"
)

// Deps are the services the server exposes.
type Deps struct {
	Matcher        *facematch.Matcher
	Neighborhoods  *neighborhoods.Service
	Telemetry      *telemetry.Service
	TokenValidator *middleware.TokenValidator
	Registry       *prometheus.Registry
	Logger         *slog.Logger
}

// Server represents the web server
type Server struct {
	config     *config.Config
	deps       Deps
	envelope   *envelope.Builder
	logger     *slog.Logger
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, port int, host string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	r := chi.NewRouter()
	s := &Server{
		config:   cfg,
		deps:     deps,
		envelope: envelope.NewBuilder(logger),
		logger:   logger,
		router:   r,
	}

	httpMetrics := middleware.NewHTTPMetrics(deps.Registry)

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(httpMetrics.Middleware)
	r.Use(middleware.NoSniff())
	r.Use(middleware.CORS(cfg.Web.AllowedOrigins))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// Face analysis can take a while on CPU-only servers.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting web server", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down web server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
