// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package models

// CatalogEntry is one title of the bulk catalog.
type CatalogEntry struct {
	ExternalID int       `json:"tmdb_id"`
	Title      string    `json:"title,omitempty"`
	RawLinks   []RawLink `json:"ott_links"`
}
