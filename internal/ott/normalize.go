// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package ott

import (
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/models"
)

// UnknownProvider is the provider name given to bare URL links.
const UnknownProvider = "Unknown"

// Normalize converts raw catalog links to canonical records, preserving
// order. A bare URL at index i becomes a record whose provider id and display
// priority are i+offset. Canonical records pass through unchanged.
// Elements of any other shape are dropped with a warning.
//
// The result is never nil.
func Normalize(raw []models.RawLink, offset int) []models.OTTLinkRecord {
	out := make([]models.OTTLinkRecord, 0, len(raw))
	for i, link := range raw {
		switch link.Kind {
		case models.RawString:
			out = append(out, models.OTTLinkRecord{
				ProviderName:    UnknownProvider,
				ProviderID:      i + offset,
				LogoPath:        "",
				DisplayPriority: i + offset,
				Link:            link.Text,
			})
		case models.RawRecord:
			out = append(out, link.Record)
		default:
			logging.Warn().
				Int("index", i).
				RawJSON("element", rawOrNull(link)).
				Msg("Dropping OTT link of unrecognized shape")
		}
	}
	return out
}

func rawOrNull(link models.RawLink) []byte {
	if len(link.Raw) == 0 {
		return []byte("null")
	}
	return link.Raw
}
