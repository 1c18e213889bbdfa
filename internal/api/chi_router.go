// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	// registers the OpenAPI document served under /swagger
	_ "github.com/tomtom215/opuscine/internal/api/docs"
	"github.com/tomtom215/opuscine/internal/middleware"
)

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. CORS and rate limits come from the handler's
// security configuration.
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFrom(handler.config.Security)),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)        // X-Request-ID plus logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/healthz", h.Health)

	// ========================
	// Versioned API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(h.perfMon.Middleware)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Post("/translate", h.Translate)

		r.Route("/movies", func(r chi.Router) {
			r.Post("/recommend", h.Recommend)
			r.Post("/query", h.Query)
			r.Get("/popular", h.Popular)
			r.Get("/{id}", h.MovieDetails)
			r.Get("/{id}/ott", h.MovieOTT)
		})
		r.Get("/tv/{id}/ott", h.TVOTT)
		r.Get("/genres", h.Genres)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/catalog/reload", h.ReloadCatalog)
			r.Post("/cache/warm", h.WarmCache)
			r.Get("/stats", h.Stats)
			r.Post("/llm/register", h.RegisterLLM)
			r.Get("/llm", h.LLMInfo)
		})
	})

	// ========================
	// Legacy aliases
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/recommend", h.Recommend)
		r.Get("/view", h.LegacyView)
		r.Get("/admin/data/reload", h.ReloadCatalog)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	})

	return r
}
