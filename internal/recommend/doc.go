// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// Package recommend implements the recommendation flow: free text is
// translated into discover parameters, the metadata provider is queried, and
// each result is enriched with artwork URLs and streaming links.
//
// # Flow
//
//	text -> translate.Translator -> params (+page) -> Provider.Discover
//	     -> truncate to limit -> Assembler (OTT links, image URLs) -> Response
//
// # Assembler
//
// The Assembler resolves OTT links for every result item concurrently on a
// bounded conc pool. Resolution never fails; an item whose title has no
// streaming availability carries an empty ott_links list, never null.
// When the request context is cancelled, items not yet started are returned
// without links.
//
// # Errors
//
// Translation cannot fail. A provider failure is returned as an error
// together with a Response whose QueryInfo is populated, so callers can
// still report what was asked.
package recommend
