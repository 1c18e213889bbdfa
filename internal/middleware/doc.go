// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package middleware provides the HTTP middleware shared by the API router.

Key Components:

  - RequestID: request ID from X-Request-ID or a new UUID, written back on the
    response and stored in the logging context with a correlation ID
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    chi route pattern
  - PerformanceMonitor: sliding window of recent requests with per-route
    percentiles, served by the admin stats endpoint

All middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(monitor.Middleware)
	})
*/
package middleware
