// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// MediaKind identifies the collection a title belongs to.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// ParseMediaKind accepts "movie" and "tv" (and the "series" alias).
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return KindMovie, nil
	case "tv", "series", "tv_series", "tv_shows":
		return KindTV, nil
	default:
		return "", fmt.Errorf("unknown media kind %q", s)
	}
}

// OTTLinkRecord is the canonical form of a streaming availability entry.
// It is also the cache wire format: the cached value for a title is the
// JSON array of its records.
type OTTLinkRecord struct {
	ProviderName    string `json:"provider_name"`
	ProviderID      int    `json:"provider_id"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
	Link            string `json:"link"`
}

// RawLinkKind tags the variant held by a RawLink.
type RawLinkKind uint8

const (
	// RawUnknown is any JSON value that is neither a string nor a canonical record.
	RawUnknown RawLinkKind = iota
	// RawString is a bare URL.
	RawString
	// RawRecord is an object carrying all five canonical fields.
	RawRecord
)

func (k RawLinkKind) String() string {
	switch k {
	case RawString:
		return "string"
	case RawRecord:
		return "record"
	default:
		return "unknown"
	}
}

// RawLink is one element of a catalog entry's ott_links array.
type RawLink struct {
	Kind   RawLinkKind
	Text   string
	Record OTTLinkRecord

	// Raw keeps the original bytes of an unknown element for diagnostics.
	Raw json.RawMessage
}

// NewRawString returns a RawString variant.
func NewRawString(link string) RawLink {
	return RawLink{Kind: RawString, Text: link}
}

// NewRawRecord returns a RawRecord variant.
func NewRawRecord(rec OTTLinkRecord) RawLink {
	return RawLink{Kind: RawRecord, Record: rec}
}

// canonicalFields are the keys a record must carry to be passed through.
var canonicalFields = [...]string{"provider_name", "provider_id", "logo_path", "display_priority", "link"}

// UnmarshalJSON decodes any JSON value. Shapes that are neither a string nor
// a canonical record become RawUnknown instead of failing, so one bad element
// never aborts a catalog load.
func (r *RawLink) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*r = RawLink{Kind: RawUnknown, Raw: append(json.RawMessage(nil), trimmed...)}

	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		*r = NewRawString(s)
	case '{':
		if rec, ok := decodeCanonical(trimmed); ok {
			*r = NewRawRecord(rec)
		}
	}
	return nil
}

// MarshalJSON writes the variant back in its stored shape.
func (r RawLink) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RawString:
		return json.Marshal(r.Text)
	case RawRecord:
		return json.Marshal(r.Record)
	default:
		if len(r.Raw) == 0 {
			return []byte("null"), nil
		}
		return r.Raw, nil
	}
}

func decodeCanonical(data []byte) (OTTLinkRecord, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return OTTLinkRecord{}, false
	}
	for _, name := range canonicalFields {
		if _, ok := fields[name]; !ok {
			return OTTLinkRecord{}, false
		}
	}

	var rec OTTLinkRecord
	if err := json.Unmarshal(fields["provider_name"], &rec.ProviderName); err != nil {
		return OTTLinkRecord{}, false
	}
	if err := json.Unmarshal(fields["link"], &rec.Link); err != nil {
		return OTTLinkRecord{}, false
	}
	// TMDB watch-provider exports carry "logo_path": null for providers without artwork.
	if !bytes.Equal(bytes.TrimSpace(fields["logo_path"]), []byte("null")) {
		if err := json.Unmarshal(fields["logo_path"], &rec.LogoPath); err != nil {
			return OTTLinkRecord{}, false
		}
	}
	var ok bool
	if rec.ProviderID, ok = integral(fields["provider_id"]); !ok {
		return OTTLinkRecord{}, false
	}
	if rec.DisplayPriority, ok = integral(fields["display_priority"]); !ok {
		return OTTLinkRecord{}, false
	}
	return rec, true
}

// integral decodes a JSON number that holds a whole value.
func integral(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int(f), true
}
