// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/movies/1/ott", "200"))
	RecordAPIRequest("GET", "/api/v1/movies/1/ott", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/movies/1/ott", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestRecordTranslation(t *testing.T) {
	rule := TranslationsTotal.WithLabelValues("rule")
	reason := TranslationFallbacks.WithLabelValues("unavailable")
	beforeRule, beforeReason := testutil.ToFloat64(rule), testutil.ToFloat64(reason)

	RecordTranslation("rule", "unavailable")
	RecordTranslation("rule", "")

	if got := testutil.ToFloat64(rule) - beforeRule; got != 2 {
		t.Errorf("rule translations delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reason) - beforeReason; got != 1 {
		t.Errorf("fallback delta = %v, want 1", got)
	}
}

func TestRecordProviderRequest(t *testing.T) {
	failure := ProviderRequests.WithLabelValues("discover", "failure")
	before := testutil.ToFloat64(failure)
	RecordProviderRequest("discover", time.Second, errors.New("timeout"))
	if got := testutil.ToFloat64(failure) - before; got != 1 {
		t.Errorf("failure delta = %v, want 1", got)
	}
}

func TestRecordCatalogLoad(t *testing.T) {
	RecordCatalogLoad(120, 30, 2, true)
	if got := testutil.ToFloat64(CatalogEntries.WithLabelValues("movies")); got != 120 {
		t.Errorf("movies gauge = %v, want 120", got)
	}
	if got := testutil.ToFloat64(CatalogEntries.WithLabelValues("series")); got != 30 {
		t.Errorf("series gauge = %v, want 30", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := CacheHits.WithLabelValues("memory")
	misses := CacheMisses.WithLabelValues("memory")
	h, m := testutil.ToFloat64(hits), testutil.ToFloat64(misses)
	RecordCacheLookup("memory", true)
	RecordCacheLookup("memory", false)
	RecordCacheLookup("memory", false)
	if testutil.ToFloat64(hits)-h != 1 || testutil.ToFloat64(misses)-m != 2 {
		t.Errorf("unexpected hit/miss deltas")
	}
}
