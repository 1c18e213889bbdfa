// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// Package metrics defines the Prometheus instrumentation for OpusCine:
//   - API endpoint latency and throughput
//   - OTT link resolution tiers and cache operations
//   - Query translation paths and model latency
//   - Catalog size and reloads
//   - Circuit breaker state
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// OTT Link Resolution Metrics
	OTTResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ott_resolutions_total",
			Help: "OTT link resolutions by answering tier",
		},
		[]string{"kind", "tier"}, // tier: "cache", "catalog", "miss"
	)

	OTTCacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ott_cache_writes_total",
			Help: "OTT link cache write-backs after a catalog hit",
		},
		[]string{"result"}, // "success", "failure", "skipped"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "redis", "badger", "memory", "translation"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Cache operations that failed or were rejected",
		},
		[]string{"cache_type", "operation"},
	)

	// Translation Metrics
	TranslationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translations_total",
			Help: "Query translations by producing method",
		},
		[]string{"method"}, // "model", "rule"
	)

	TranslationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_fallbacks_total",
			Help: "Model path failures that demoted to the rule path",
		},
		[]string{"reason"},
	)

	ModelCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_call_duration_seconds",
			Help:    "Duration of natural-language model calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	// Provider Metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Metadata provider requests by endpoint and outcome",
		},
		[]string{"endpoint", "result"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Metadata provider request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Catalog Metrics
	CatalogEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_entries",
			Help: "Entries in the active catalog snapshot",
		},
		[]string{"collection"}, // "movies", "series"
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Catalog loads by outcome",
		},
		[]string{"result"}, // "complete", "degraded"
	)

	CatalogSkippedEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_skipped_entries_total",
			Help: "Catalog entries skipped for a missing or unusable identifier",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordResolution records which tier answered an OTT link lookup.
func RecordResolution(kind, tier string) {
	OTTResolutions.WithLabelValues(kind, tier).Inc()
}

// RecordCacheLookup records a hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordTranslation records the method that produced a translation and,
// for rule results that replaced a failed model attempt, the reason.
func RecordTranslation(method, fallbackReason string) {
	TranslationsTotal.WithLabelValues(method).Inc()
	if fallbackReason != "" {
		TranslationFallbacks.WithLabelValues(fallbackReason).Inc()
	}
}

// RecordProviderRequest records a metadata provider call.
func RecordProviderRequest(endpoint string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ProviderRequests.WithLabelValues(endpoint, result).Inc()
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCatalogLoad updates catalog gauges after a snapshot swap.
func RecordCatalogLoad(movies, series, skipped int, degraded bool) {
	CatalogEntries.WithLabelValues("movies").Set(float64(movies))
	CatalogEntries.WithLabelValues("series").Set(float64(series))
	CatalogSkippedEntries.Add(float64(skipped))
	if degraded {
		CatalogReloads.WithLabelValues("degraded").Inc()
		return
	}
	CatalogReloads.WithLabelValues("complete").Inc()
}
