// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestNewPerformanceMonitor_Defaults(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(0, 0)
	if pm.maxMetrics != 1000 {
		t.Errorf("maxMetrics = %d", pm.maxMetrics)
	}
	if pm.slowThreshold != DefaultSlowThreshold {
		t.Errorf("slowThreshold = %v", pm.slowThreshold)
	}
}

func TestPerformanceMonitor_SlidingWindow(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3, 0)
	for i := 1; i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/r", Method: "GET", DurationMS: int64(i)})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("window size = %d, want 3", len(recent))
	}
	if recent[0].DurationMS != 3 || recent[2].DurationMS != 5 {
		t.Errorf("window = %+v", recent)
	}
	if got := pm.GetRecentMetrics(1); len(got) != 1 || got[0].DurationMS != 5 {
		t.Errorf("GetRecentMetrics(1) = %+v", got)
	}
}

func TestPerformanceMonitor_GetStats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100, 0)
	for i := 1; i <= 10; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/api/v1/translate", Method: "POST", DurationMS: int64(i * 10), StatusCode: 200})
	}
	pm.RecordRequest(&RequestMetrics{Route: "/api/v1/genres", Method: "GET", DurationMS: 5, StatusCode: 502})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(stats))
	}

	top := stats[0]
	if top.Endpoint != "POST /api/v1/translate" || top.RequestCount != 10 {
		t.Errorf("busiest endpoint = %+v", top)
	}
	if top.MinDuration != 10 || top.MaxDuration != 100 || top.AvgDuration != 55 {
		t.Errorf("min/max/avg = %d/%d/%v", top.MinDuration, top.MaxDuration, top.AvgDuration)
	}
	if top.P50Duration != 50 || top.P95Duration != 90 {
		t.Errorf("p50/p95 = %d/%d", top.P50Duration, top.P95Duration)
	}
	if stats[1].ErrorCount != 1 {
		t.Errorf("error count = %d", stats[1].ErrorCount)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, time.Millisecond)
	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/api/v1/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Millisecond)
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/movies/1", nil))

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatal("request was not recorded")
	}
	if recent[0].Route != "/api/v1/movies/{id}" || recent[0].StatusCode != http.StatusNotFound {
		t.Errorf("recorded %+v", recent[0])
	}
}

func TestPerformanceMonitor_Concurrent(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(50, 0)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				pm.RecordRequest(&RequestMetrics{Route: "/r", Method: "GET", DurationMS: int64(j)})
				_ = pm.GetStats()
			}
		}()
	}
	wg.Wait()

	if n := len(pm.GetRecentMetrics(100)); n != 50 {
		t.Errorf("window size = %d, want 50", n)
	}
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	if percentile(nil, 0.5) != 0 {
		t.Error("empty slice should give 0")
	}
	sorted := []int64{1, 2, 3, 4, 5}
	if percentile(sorted, 0.5) != 3 || percentile(sorted, 0.99) != 4 || percentile(sorted, 1) != 5 {
		t.Error("unexpected percentile values")
	}
}
