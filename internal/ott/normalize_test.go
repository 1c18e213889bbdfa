// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package ott

import (
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/opuscine/internal/models"
)

func TestNormalize_StringsOnly(t *testing.T) {
	t.Parallel()

	raw := []models.RawLink{
		models.NewRawString("https://netflix.com/1"),
		models.NewRawString("https://watcha.com/1"),
		models.NewRawString("https://wavve.com/1"),
	}
	got := Normalize(raw, 1)

	if len(got) != len(raw) {
		t.Fatalf("len = %d, want %d", len(got), len(raw))
	}
	for i, rec := range got {
		if rec.DisplayPriority != i+1 {
			t.Errorf("[%d] DisplayPriority = %d, want %d", i, rec.DisplayPriority, i+1)
		}
		if rec.ProviderID != i+1 {
			t.Errorf("[%d] ProviderID = %d, want %d", i, rec.ProviderID, i+1)
		}
		if rec.ProviderName != UnknownProvider {
			t.Errorf("[%d] ProviderName = %q, want %q", i, rec.ProviderName, UnknownProvider)
		}
		if rec.LogoPath != "" {
			t.Errorf("[%d] LogoPath = %q, want empty", i, rec.LogoPath)
		}
		if rec.Link != raw[i].Text {
			t.Errorf("[%d] Link = %q, want %q", i, rec.Link, raw[i].Text)
		}
	}
}

func TestNormalize_MixedPreservesRecordsAndOrder(t *testing.T) {
	t.Parallel()

	canonical := models.OTTLinkRecord{
		ProviderName:    "Netflix",
		ProviderID:      8,
		LogoPath:        "/t2yyOv40HZeVlLjYsCsPHnWLk4W.jpg",
		DisplayPriority: 4,
		Link:            "https://www.netflix.com/title/81",
	}
	raw := []models.RawLink{
		models.NewRawString("https://a"),
		models.NewRawRecord(canonical),
		{Kind: models.RawUnknown, Raw: json.RawMessage(`{"name":"odd"}`)},
		models.NewRawString("https://b"),
	}
	got := Normalize(raw, 1)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (one unknown dropped)", len(got))
	}
	if got[0].Link != "https://a" || got[0].DisplayPriority != 1 {
		t.Errorf("[0] = %+v", got[0])
	}
	if got[1] != canonical {
		t.Errorf("[1] = %+v, want canonical record unchanged", got[1])
	}
	// Position is the index in the source list, not in the output.
	if got[2].Link != "https://b" || got[2].DisplayPriority != 4 {
		t.Errorf("[2] = %+v, want priority 4", got[2])
	}
}

func TestNormalize_Offset(t *testing.T) {
	t.Parallel()

	got := Normalize([]models.RawLink{models.NewRawString("x")}, 10)
	if got[0].DisplayPriority != 10 || got[0].ProviderID != 10 {
		t.Errorf("offset not applied: %+v", got[0])
	}
}

func TestNormalize_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	got := Normalize(nil, 1)
	if got == nil || len(got) != 0 {
		t.Errorf("Normalize(nil) = %#v, want empty non-nil", got)
	}
}

func TestNormalize_FromCatalogJSON(t *testing.T) {
	t.Parallel()

	var raw []models.RawLink
	src := `["https://a", {"provider_name":"Wavve","provider_id":356,"logo_path":null,"display_priority":7,"link":"https://w"}, 12, {"link":"only"}]`
	if err := json.Unmarshal([]byte(src), &raw); err != nil {
		t.Fatal(err)
	}
	got := Normalize(raw, 1)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].ProviderName != "Wavve" || got[1].DisplayPriority != 7 {
		t.Errorf("record = %+v", got[1])
	}
}
