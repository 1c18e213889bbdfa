// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/opuscine/internal/cache"
	"github.com/tomtom215/opuscine/internal/catalog"
	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/llm"
	"github.com/tomtom215/opuscine/internal/middleware"
	"github.com/tomtom215/opuscine/internal/ott"
	"github.com/tomtom215/opuscine/internal/recommend"
	"github.com/tomtom215/opuscine/internal/tmdb"
	"github.com/tomtom215/opuscine/internal/translate"
)

// Genre lists and movie details are reused for providerCacheTTL, up to
// providerCacheSize entries.
const (
	providerCacheTTL  = 10 * time.Minute
	providerCacheSize = 2048
)

// Deps are the components the handlers serve from.
type Deps struct {
	Config     *config.Config
	Catalog    *catalog.Store
	Cache      *cache.GuardedStore
	Resolver   *ott.Resolver
	Translator *translate.Translator
	TMDB       *tmdb.Client
	Model      *llm.Client
	Registry   *llm.Registry
	Version    string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: shared helpers
//   - handlers_health.go: banner, health, liveness and readiness
//   - handlers_movies.go: translate, recommend, provider and OTT lookups
//   - handlers_admin.go: catalog reload, cache warm, stats, model registry
type Handler struct {
	config        *config.Config
	catalog       *catalog.Store
	cache         *cache.GuardedStore
	resolver      *ott.Resolver
	translator    *translate.Translator
	recommend     *recommend.Service
	tmdb          *tmdb.Client
	model         *llm.Client
	registry      *llm.Registry
	providerCache *cache.LRUCache
	perfMon       *middleware.PerformanceMonitor
	startTime     time.Time
	version       string
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(api.Deps{...})
//	router := api.NewRouter(handler)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(deps Deps) *Handler {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	return &Handler{
		config:     cfg,
		catalog:    deps.Catalog,
		cache:      deps.Cache,
		resolver:   deps.Resolver,
		translator: deps.Translator,
		recommend: recommend.NewService(recommend.Options{
			Translator: deps.Translator,
			Provider:   deps.TMDB,
			Resolver:   deps.Resolver,
		}),
		tmdb:          deps.TMDB,
		model:         deps.Model,
		registry:      deps.Registry,
		providerCache: cache.NewLRUCache(providerCacheSize, providerCacheTTL),
		perfMon:       middleware.NewPerformanceMonitor(1000, 0),
		startTime:     time.Now(),
		version:       version,
	}
}

// Close drops cached provider responses.
func (h *Handler) Close() {
	h.providerCache.Clear()
}

// requestContext bounds a handler's work by the configured request timeout.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.config.Server.RequestTimeout
	if timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), timeout)
}
