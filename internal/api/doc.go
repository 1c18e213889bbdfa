// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package api provides the HTTP REST API layer for OpusCine.

Key Components:

  - Router: chi route table and middleware stack
  - Handler: request handlers bound to the catalog, resolver, translator and provider client
  - ResponseWriter: the standard JSON envelope with request ID and timing metadata
  - ChiMiddleware: go-chi/cors and go-chi/httprate factories built from the security config

Endpoints:

 1. Core
    - GET / (service banner)
    - GET /health, /healthz, /api/v1/health (always 200, status healthy or degraded)
    - GET /api/v1/health/live, /api/v1/health/ready

 2. Movies and OTT (/api/v1)
    - POST /translate
    - POST /movies/recommend, POST /movies/query
    - GET /movies/popular, GET /movies/{id}, GET /genres
    - GET /movies/{id}/ott, GET /tv/{id}/ott

 3. Admin (/api/v1/admin)
    - POST /catalog/reload, POST /cache/warm, GET /stats
    - POST /llm/register, GET /llm

 4. Legacy aliases
    - POST /recommend, GET /view?movieId=, GET /admin/data/reload

Response Format:

	{
	  "success": true,
	  "data": { ... },
	  "metadata": {"timestamp": "...", "request_id": "...", "query_time_ms": 12}
	}

Errors set success to false and carry error.code, one of VALIDATION_ERROR,
BAD_REQUEST, NOT_FOUND, RATE_LIMITED, UPSTREAM_ERROR, INTERNAL_ERROR or
SERVICE_UNAVAILABLE. Provider failures on the recommend endpoints answer 502
with the interpreted query in error.details.query_info.

Middleware Stack:

 1. RequestID (X-Request-ID, logging context)
 2. RealIP, Recoverer
 3. CORS
 4. Compress
 5. Rate limiting, Prometheus metrics and the performance monitor on /api/v1

Every handler bounds its work with server.request_timeout.
*/
package api
