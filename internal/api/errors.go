// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/opuscine/internal/breaker"
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/tmdb"
)

// ErrCatalogNotLoaded is reported by readiness before the first catalog load.
var ErrCatalogNotLoaded = errors.New("catalog not loaded")

// upstreamStatus maps a metadata provider error to an HTTP status, error
// code and client message.
func upstreamStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, tmdb.ErrNotConfigured):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Metadata provider is not configured"
	case errors.Is(err, tmdb.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "Movie not found"
	case breaker.IsRejected(err):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Metadata provider is temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeUpstream, "Metadata provider timed out"
	default:
		return http.StatusBadGateway, ErrCodeUpstream, "Metadata provider request failed"
	}
}

// UpstreamError writes the envelope for a failed provider call. details may
// carry partial results such as query_info.
func (rw *ResponseWriter) UpstreamError(err error, details interface{}) {
	status, code, message := upstreamStatus(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(rw.r.Context()).Warn().Err(err).Str("path", sanitizeLogValue(rw.r.URL.Path)).Msg("Provider call failed")
	}
	rw.ErrorWithDetails(status, code, message, details)
}
