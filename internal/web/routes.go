package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kozaktomas/facegate/internal/web/handlers"
	"github.com/kozaktomas/facegate/internal/web/middleware"
)

func (s *Server) setupRoutes() {
	// Health check and metrics (no auth required)
	s.router.Get("/", handlers.HealthCheck)
	s.router.Get("/health", handlers.HealthCheck)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.deps.Registry, promhttp.HandlerOpts{}))

	if s.deps.Matcher != nil {
		facesHandler := handlers.NewFacesHandler(s.config, s.deps.Matcher, s.envelope)
		s.router.Post("/compare", facesHandler.Compare)
		s.router.Post("/attributes", facesHandler.Attributes)
	}

	if s.deps.Neighborhoods != nil {
		recordsHandler := handlers.NewNeighborhoodsHandler(s.deps.Neighborhoods, s.envelope)
		s.router.Route("/records", func(r chi.Router) {
			r.Get("/", recordsHandler.List)
			r.Post("/", recordsHandler.Create)
			r.Get("/{id}", recordsHandler.Get)
			r.Put("/{id}", recordsHandler.Update)
			r.Delete("/{id}", recordsHandler.Delete)
		})
	}

	// The webhook is only mounted with a validator, so it is never reachable unauthenticated.
	if s.deps.Telemetry != nil && s.deps.TokenValidator != nil {
		webhookHandler := handlers.NewWebhookHandler(s.deps.Telemetry, s.envelope)
		s.router.Group(func(r chi.Router) {
			r.Use(middleware.RequireBearer(s.deps.TokenValidator, s.envelope))
			r.Post("/webhook", webhookHandler.Receive)
		})
	}
}
