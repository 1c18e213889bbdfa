// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/opuscine/internal/cache"
	"github.com/tomtom215/opuscine/internal/catalog"
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/middleware"
)

// AdminStats is the body of GET /api/v1/admin/stats.
type AdminStats struct {
	Uptime        float64                    `json:"uptime_seconds"`
	Catalog       catalog.Stats              `json:"catalog"`
	Cache         map[string]any             `json:"cache"`
	Memo          *cache.Stats               `json:"translation_memo,omitempty"`
	ProviderCache cache.LRUStats             `json:"provider_cache"`
	Endpoints     []middleware.EndpointStats `json:"endpoints"`
}

// ReloadCatalog handles POST /api/v1/admin/catalog/reload and the legacy
// GET /admin/data/reload.
//
// @Summary Reload the OTT catalog files
// @Description Re-reads both catalog files and atomically replaces the active snapshot
// @Tags Admin
// @Produce json
// @Success 200 {object} APIResponse{data=catalog.LoadResult}
// @Router /api/v1/admin/catalog/reload [post]
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result := h.catalog.Reload(ctx)
	logging.Ctx(ctx).Info().
		Int("movies", result.Movies).
		Int("series", result.Series).
		Bool("degraded", result.Degraded).
		Msg("Catalog reloaded via admin API")
	rw.Success(result)
}

// WarmCache handles POST /api/v1/admin/cache/warm
//
// @Summary Write every catalog entry's links to the cache
// @Tags Admin
// @Produce json
// @Success 200 {object} APIResponse{data=ott.WarmResult}
// @Failure 503 {object} APIResponse
// @Failure 504 {object} APIResponse
// @Router /api/v1/admin/cache/warm [post]
func (h *Handler) WarmCache(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.resolver.Warm(ctx)
	switch {
	case err == nil:
		rw.Success(result)
	case errors.Is(err, context.DeadlineExceeded):
		rw.ErrorWithDetails(http.StatusGatewayTimeout, ErrCodeServiceUnavailable, "Cache warm timed out", result)
	default:
		logging.Ctx(ctx).Warn().Err(err).Msg("Cache warm failed")
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Cache warm failed", result)
	}
}

// Stats handles GET /api/v1/admin/stats
//
// @Summary Catalog, cache and endpoint statistics
// @Tags Admin
// @Produce json
// @Success 200 {object} APIResponse{data=AdminStats}
// @Router /api/v1/admin/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	stats := AdminStats{
		Uptime:        time.Since(h.startTime).Seconds(),
		Catalog:       h.catalog.Stats(),
		Cache:         map[string]any{"backend": "none"},
		Memo:          h.translator.MemoStats(),
		ProviderCache: h.providerCache.Stats(),
		Endpoints:     h.perfMon.GetStats(),
	}
	if h.cache != nil {
		stats.Cache = h.cache.Describe(ctx)
		stats.Cache["reachable"] = h.cache.Reachable(ctx)
	}
	rw.Success(stats)
}

// RegisterLLM handles POST /api/v1/admin/llm/register
//
// @Summary Register the model server URL
// @Description The URL is kept in the cache for 24 hours and takes precedence over the configured one
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body RegisterLLMRequest true "Model server base URL"
// @Success 200 {object} APIResponse{data=llm.EndpointInfo}
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/admin/llm/register [post]
func (h *Handler) RegisterLLM(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RegisterLLMRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	info, err := h.registry.Register(ctx, req.URL)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Model server registration failed")
		rw.ServiceUnavailable("Model server registration could not be stored")
		return
	}
	rw.Success(info)
}

// LLMInfo handles GET /api/v1/admin/llm
//
// @Summary Effective model server URL
// @Tags Admin
// @Produce json
// @Success 200 {object} APIResponse{data=llm.EndpointInfo}
// @Router /api/v1/admin/llm [get]
func (h *Handler) LLMInfo(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	rw.Success(h.registry.Info(ctx))
}
