// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// Package ott resolves streaming availability ("OTT") links for titles.
//
// Resolver is cache-aside over the catalog:
//
//  1. Get "{kind}:{id}:ott_links" from the KV cache. A non-empty decoded
//     list is returned as is.
//  2. On a miss, or when the cache is unreachable, search the catalog
//     snapshot (movies first, then series, when cross-collection fallback
//     is on).
//  3. Normalize the entry's raw links and, if the cache answered in step 1,
//     write them back with a 24h TTL. Write failures are logged only.
//
// Resolve has no error return. With neither tier available it returns an
// empty slice.
package ott
