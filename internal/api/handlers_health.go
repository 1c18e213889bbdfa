// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/opuscine/internal/catalog"
)

// Health statuses.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// CacheHealth reports the KV cache state.
type CacheHealth struct {
	Backend      string `json:"backend"`
	Reachable    bool   `json:"reachable"`
	BreakerState string `json:"breaker_state"`
}

// ProviderHealth reports whether metadata provider calls can be made.
type ProviderHealth struct {
	Configured   bool   `json:"configured"`
	BreakerState string `json:"breaker_state"`
}

// ModelHealth reports the natural-language model settings in effect.
type ModelHealth struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Uptime   float64        `json:"uptime_seconds"`
	Catalog  catalog.Stats  `json:"catalog"`
	Cache    CacheHealth    `json:"cache"`
	Provider ProviderHealth `json:"provider"`
	Model    ModelHealth    `json:"model"`
}

// Banner is the body of GET /.
type Banner struct {
	Name          string      `json:"name"`
	Version       string      `json:"version"`
	CatalogLoaded bool        `json:"catalog_loaded"`
	Cache         CacheHealth `json:"cache"`
	Routes        []string    `json:"routes"`
}

var bannerRoutes = []string{
	"POST /api/v1/translate",
	"POST /api/v1/movies/recommend",
	"POST /api/v1/movies/query",
	"GET /api/v1/movies/popular",
	"GET /api/v1/movies/{id}",
	"GET /api/v1/movies/{id}/ott",
	"GET /api/v1/tv/{id}/ott",
	"GET /api/v1/genres",
	"GET /api/v1/health",
	"GET /metrics",
	"GET /swagger/index.html",
}

func (h *Handler) cacheHealth(r *http.Request) CacheHealth {
	if h.cache == nil {
		return CacheHealth{Backend: "none", BreakerState: "closed"}
	}
	return CacheHealth{
		Backend:      h.cache.Backend(),
		Reachable:    h.cache.Reachable(r.Context()),
		BreakerState: h.cache.BreakerState(),
	}
}

// Root handles GET /
//
// @Summary Service banner
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=Banner}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(Banner{
		Name:          "OpusCine",
		Version:       h.version,
		CatalogLoaded: h.catalog.Loaded(),
		Cache:         h.cacheHealth(r),
		Routes:        bannerRoutes,
	})
}

// Health handles health check requests. It always answers 200; a missing
// catalog, unreachable cache or unconfigured provider reports "degraded".
//
// @Summary Get system health status
// @Description Catalog counts, cache reachability, provider and model configuration
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /api/v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	health := HealthStatus{
		Status:  StatusHealthy,
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
		Catalog: h.catalog.Stats(),
		Cache:   h.cacheHealth(r),
		Provider: ProviderHealth{
			Configured:   h.tmdb.Configured(),
			BreakerState: h.tmdb.BreakerState(),
		},
	}
	if h.model != nil {
		health.Model = ModelHealth{Enabled: h.model.Enabled(), Model: h.model.Model()}
	}
	if h.registry != nil {
		info := h.registry.Info(r.Context())
		health.Model.URL = info.URL
		health.Model.Source = info.Source
	}

	if !health.Catalog.Loaded || !health.Cache.Reachable || !health.Provider.Configured {
		health.Status = StatusDegraded
	}

	rw.Success(health)
}

// HealthLive handles liveness probes.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles readiness probes. The service is ready once the first
// catalog load has completed.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.catalog.Loaded() {
		rw.ServiceUnavailable(ErrCatalogNotLoaded.Error())
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
