// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/logging"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache: miss")

	// ErrUnavailable wraps every backend failure surfaced by GuardedStore.
	ErrUnavailable = errors.New("cache: unavailable")
)

// Store is a byte-oriented key-value store with per-write TTL.
type Store interface {
	// Get returns the value for key or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key, expiring after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping reports whether the backend can serve requests.
	Ping(ctx context.Context) error

	// Backend names the implementation ("redis", "badger", "memory").
	Backend() string

	Close() error
}

// Describer is implemented by stores that can report backend-specific
// counters for the admin stats endpoint.
type Describer interface {
	Describe(ctx context.Context) map[string]any
}

// Open builds the configured backend and wraps it in a GuardedStore.
func Open(cfg config.CacheConfig) (*GuardedStore, error) {
	var (
		inner Store
		err   error
	)

	switch cfg.Backend {
	case config.CacheBackendRedis:
		inner = NewRedisStore(cfg.Redis, cfg.OpTimeout)
	case config.CacheBackendBadger:
		inner, err = OpenBadgerStore(cfg.Badger.Path)
	case config.CacheBackendMemory:
		inner = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("backend", inner.Backend()).
		Dur("ttl", cfg.TTL).
		Dur("op_timeout", cfg.OpTimeout).
		Msg("Cache store opened")

	return NewGuardedStore(inner, cfg), nil
}
