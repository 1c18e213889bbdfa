// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package tmdb is the metadata provider client.

It covers the endpoints the service needs: discover, movie details (with
credits, videos and images appended), title search, the genre list, the
popular list, movie credits and a configuration ping. ImageURL builds
artwork URLs from provider paths.

Every call goes through a circuit breaker named "tmdb" and is retried with
exponential backoff on 429 and 5xx answers. 404 maps to ErrNotFound and 401
to ErrUnauthorized; neither is retried and neither trips the breaker.
Without an API key every call returns ErrNotConfigured.
*/
package tmdb
