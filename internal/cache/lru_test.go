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

// fakeClock lets TTL tests move time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestLRU(capacity int, ttl time.Duration) (*LRUCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache(capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCache_BasicOperations(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)

	c.Add("movie:603", "The Matrix")
	c.Add("movie:27205", "Inception")

	value, found := c.Get("movie:603")
	if !found {
		t.Fatal("expected movie:603 to be present")
	}
	if value != "The Matrix" {
		t.Errorf("value = %v, want The Matrix", value)
	}
	if _, found := c.Get("movie:1"); found {
		t.Error("movie:1 should not be present")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	// Overwrite keeps a single entry.
	c.Add("movie:603", "The Matrix (1999)")
	value, _ = c.Get("movie:603")
	if value != "The Matrix (1999)" {
		t.Errorf("value after overwrite = %v", value)
	}
	if c.Len() != 2 {
		t.Errorf("Len() after overwrite = %d, want 2", c.Len())
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// Touch a so b becomes the least recently used.
	c.Get("a")
	c.Add("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("expected b to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("expected %s to be present", key)
		}
	}
	if stats := c.Stats(); stats.Evictions != 1 || stats.Size != 3 || stats.Capacity != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestLRUCache_TTLExpiration(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Add("genres:ko", []string{"액션"})
	if _, found := c.Get("genres:ko"); !found {
		t.Fatal("expected entry before expiry")
	}

	clock.Advance(61 * time.Second)
	if _, found := c.Get("genres:ko"); found {
		t.Error("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be dropped on access, Len() = %d", c.Len())
	}
}

func TestLRUCache_AddRefreshesTTL(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Add("k", 1)
	clock.Advance(50 * time.Second)
	c.Add("k", 2)
	clock.Advance(50 * time.Second)

	value, found := c.Get("k")
	if !found || value != 2 {
		t.Errorf("Get = %v, %v; want 2, true", value, found)
	}
}

func TestLRUCache_CleanupExpired(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Add("old1", 1)
	c.Add("old2", 2)
	clock.Advance(30 * time.Second)
	c.Add("fresh", 3)
	clock.Advance(40 * time.Second)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if _, found := c.Get("fresh"); !found {
		t.Error("fresh entry should survive cleanup")
	}
}

func TestLRUCache_RemoveAndClear(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}

	c.Get("b")
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	if _, found := c.Get("b"); found {
		t.Error("b should be gone after Clear")
	}
	// Counters survive Clear.
	if stats := c.Stats(); stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestLRUCache_Defaults(t *testing.T) {
	c := NewLRUCache(0, 0)
	if c.capacity != 10000 {
		t.Errorf("capacity = %d, want 10000", c.capacity)
	}
	if c.ttl != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", c.ttl)
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := NewLRUCache(100, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*500+i)%250)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
