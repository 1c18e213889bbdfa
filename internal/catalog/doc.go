// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// Package catalog loads the bulk movie and series catalogs into memory and
// serves id lookups from an immutable snapshot.
//
// Source files are JSON objects holding a list of entries under "movies"
// (movie file) or "tv_shows"/"tv_series" (series file). Each entry carries an
// identifier in "tmdb_id" (or "id") and its raw links in "ott_links".
//
// Store.Load builds a complete Snapshot and publishes it with a single
// atomic pointer swap, so a reader holding a Snapshot resolves every lookup
// against one generation of the data.
package catalog
