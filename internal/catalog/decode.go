// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/models"
)

// Top-level keys of the catalog source files. Series files exported by
// different tools use either key; both are read, tv_shows first.
var (
	movieKeys  = []string{"movies"}
	seriesKeys = []string{"tv_shows", "tv_series"}
)

// collection is one decoded source: entries in file order plus an id index.
type collection struct {
	entries []*models.CatalogEntry
	byID    map[int]*models.CatalogEntry
	skipped int
}

func emptyCollection() *collection {
	return &collection{byID: map[int]*models.CatalogEntry{}}
}

func (c *collection) len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// decodeCollection parses a catalog file and collects the entries found under
// keys. Entries without a usable identifier are skipped; for duplicate ids the
// first occurrence wins.
func decodeCollection(source string, data []byte, keys []string) (*collection, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}

	out := emptyCollection()
	for _, key := range keys {
		raw, ok := top[key]
		if !ok || isNull(raw) {
			continue
		}

		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("parse %s: %q is not a list: %w", source, key, err)
		}

		for i, item := range items {
			entry, err := decodeEntry(item)
			if err != nil {
				out.skipped++
				logging.Warn().
					Str("source", source).
					Str("key", key).
					Int("index", i).
					Err(err).
					Msg("Skipping catalog entry")
				continue
			}
			if _, dup := out.byID[entry.ExternalID]; dup {
				logging.Debug().Str("source", source).Int("id", entry.ExternalID).Msg("Duplicate catalog id, keeping first")
				continue
			}
			out.byID[entry.ExternalID] = entry
			out.entries = append(out.entries, entry)
		}
	}
	return out, nil
}

func decodeEntry(item json.RawMessage) (*models.CatalogEntry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return nil, fmt.Errorf("entry is not an object")
	}

	id, err := entryID(fields)
	if err != nil {
		return nil, err
	}

	entry := &models.CatalogEntry{ExternalID: id}

	for _, key := range []string{"title", "name"} {
		if raw, ok := fields[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				entry.Title = s
				break
			}
		}
	}

	if raw, ok := fields["ott_links"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &entry.RawLinks); err != nil {
			logging.Warn().Int("id", id).Err(err).Msg("Catalog entry ott_links is not a list, treating as empty")
			entry.RawLinks = nil
		}
	}
	return entry, nil
}

// entryID reads tmdb_id, falling back to id. Numbers must be positive whole
// values; strings must parse as one.
func entryID(fields map[string]json.RawMessage) (int, error) {
	for _, key := range []string{"tmdb_id", "id"} {
		raw, ok := fields[key]
		if !ok || isNull(raw) {
			continue
		}
		id, err := parseID(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return id, nil
	}
	return 0, fmt.Errorf("missing identifier")
}

func parseID(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	var text string

	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("invalid string identifier")
		}
		text = strings.TrimSpace(text)
		n, err := strconv.Atoi(text)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("identifier %q is not a positive integer", text)
		}
		return n, nil
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("identifier %s is not a number", raw)
	}
	if n, err := num.Int64(); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("identifier %d is not positive", n)
		}
		return int(n), nil
	}
	f, err := num.Float64()
	if err != nil || f != float64(int64(f)) || f <= 0 {
		return 0, fmt.Errorf("identifier %s is not a positive integer", num)
	}
	return int(f), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
