// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/tomtom215/opuscine/internal/config"
)

var errStoreClosed = errors.New("cache: store closed")

// MemoryStore is a process-local Store backed by the TTL cache.
type MemoryStore struct {
	c      *Cache
	closed atomic.Bool
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: New(24 * time.Hour)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	b, _ := v.([]byte)
	return append([]byte(nil), b...), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	m.c.SetWithTTL(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return m.check(ctx)
}

func (m *MemoryStore) Backend() string { return config.CacheBackendMemory }

func (m *MemoryStore) Describe(_ context.Context) map[string]any {
	s := m.c.GetStats()
	return map[string]any{
		"keys":      m.c.Len(),
		"hits":      s.Hits,
		"misses":    s.Misses,
		"evictions": s.Evictions,
		"hit_rate":  m.c.HitRate(),
	}
}

func (m *MemoryStore) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		m.c.Close()
	}
	return nil
}

func (m *MemoryStore) check(ctx context.Context) error {
	if m.closed.Load() {
		return errStoreClosed
	}
	return ctx.Err()
}
