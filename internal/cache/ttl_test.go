// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(50 * time.Millisecond)
	defer c.Close()

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	time.Sleep(80 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	c := New(1 * time.Hour)
	defer c.Close()

	c.SetWithTTL("short", "v", 30*time.Millisecond)
	c.Set("long", "v")
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("short-lived entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default-TTL entry should still exist")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	c.Clear()
	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("TotalKeys = %d, want 0", stats.TotalKeys)
	}
	if stats.Evictions != 3 {
		t.Errorf("Evictions = %d, want 3", stats.Evictions)
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	if c.HitRate() != 0 {
		t.Errorf("HitRate with no operations = %v, want 0", c.HitRate())
	}

	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate = %v, want 75", got)
	}
}

func TestCacheManualCleanup(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	c.SetWithTTL("expired1", "v", time.Millisecond)
	c.SetWithTTL("expired2", "v", time.Millisecond)
	c.Set("live", "v")
	time.Sleep(10 * time.Millisecond)

	c.cleanup()

	stats := c.GetStats()
	if stats.TotalKeys != 1 {
		t.Errorf("TotalKeys = %d, want 1", stats.TotalKeys)
	}
	if stats.Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", stats.Evictions)
	}
	if stats.LastCleanup.IsZero() {
		t.Error("LastCleanup not set")
	}
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.Close()
	c.Close()

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Error("cache should remain usable after Close")
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%5)
				c.Set(key, id)
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	stats := c.GetStats()
	if stats.Hits == 0 && stats.Misses == 0 {
		t.Error("Expected some cache activity from concurrent operations")
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Text string
		Page int
	}

	key1 := GenerateKey("translate", params{"봉준호 영화", 1})
	key2 := GenerateKey("translate", params{"봉준호 영화", 1})
	key3 := GenerateKey("translate", params{"봉준호 영화", 2})

	if key1 != key2 {
		t.Error("Expected same params to generate same key")
	}
	if key1 == key3 {
		t.Error("Expected different params to generate different key")
	}
	if key1[:10] != "translate:" {
		t.Errorf("key %q missing namespace prefix", key1)
	}
}

func TestGenerateKeyUnmarshalable(t *testing.T) {
	key := GenerateKey("ns", make(chan int))
	if key[:3] != "ns:" {
		t.Errorf("fallback key %q missing namespace prefix", key)
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New(1 * time.Minute)
	defer c.Close()
	c.Set("key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}
