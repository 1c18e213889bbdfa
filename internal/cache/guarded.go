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

	"github.com/tomtom215/opuscine/internal/breaker"
	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/metrics"
)

// GuardedStore bounds every operation on an inner Store with a timeout and
// a circuit breaker. Errors other than ErrMiss wrap ErrUnavailable.
type GuardedStore struct {
	inner     Store
	br        *breaker.Breaker
	opTimeout time.Duration
	ttl       time.Duration
}

// NewGuardedStore wraps inner with the timeout, TTL and breaker settings
// from cfg.
func NewGuardedStore(inner Store, cfg config.CacheConfig) *GuardedStore {
	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = 2 * time.Second
	}
	return &GuardedStore{
		inner:     inner,
		br:        breaker.New(breaker.FromConfig("cache-"+inner.Backend(), cfg.Breaker)),
		opTimeout: opTimeout,
		ttl:       cfg.TTL,
	}
}

// TTL is the configured lifetime for entries written by callers that do
// not choose their own.
func (g *GuardedStore) TTL() time.Duration { return g.ttl }

// Backend names the wrapped implementation.
func (g *GuardedStore) Backend() string { return g.inner.Backend() }

// BreakerState reports the breaker state ("closed", "half-open", "open").
func (g *GuardedStore) BreakerState() string { return g.br.State() }

// Get returns the value for key, ErrMiss, or an error wrapping ErrUnavailable.
func (g *GuardedStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opTimeout)
	defer cancel()

	miss := false
	value, err := breaker.Call(g.br, func() ([]byte, error) {
		v, err := g.inner.Get(ctx, key)
		if errors.Is(err, ErrMiss) {
			miss = true
			return nil, nil
		}
		return v, err
	})
	if err != nil {
		return nil, g.unavailable("get", err)
	}
	metrics.RecordCacheLookup(g.inner.Backend(), !miss)
	if miss {
		return nil, ErrMiss
	}
	return value, nil
}

// Set writes value under key. A non-positive ttl uses the configured TTL.
func (g *GuardedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = g.ttl
	}
	ctx, cancel := context.WithTimeout(ctx, g.opTimeout)
	defer cancel()

	if err := g.br.Do(func() error { return g.inner.Set(ctx, key, value, ttl) }); err != nil {
		return g.unavailable("set", err)
	}
	return nil
}

// Ping checks the backend through the breaker.
func (g *GuardedStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.opTimeout)
	defer cancel()

	if err := g.br.Do(func() error { return g.inner.Ping(ctx) }); err != nil {
		return g.unavailable("ping", err)
	}
	return nil
}

// Reachable reports whether the cache can currently serve requests. An open
// breaker answers false without touching the backend.
func (g *GuardedStore) Reachable(ctx context.Context) bool {
	if g.br.Open() {
		return false
	}
	return g.Ping(ctx) == nil
}

// Describe merges backend counters with the guard's own state.
func (g *GuardedStore) Describe(ctx context.Context) map[string]any {
	out := map[string]any{}
	if d, ok := g.inner.(Describer); ok && !g.br.Open() {
		dctx, cancel := context.WithTimeout(ctx, g.opTimeout)
		for k, v := range d.Describe(dctx) {
			out[k] = v
		}
		cancel()
	}
	out["backend"] = g.inner.Backend()
	out["breaker_state"] = g.br.State()
	out["ttl_seconds"] = int64(g.ttl / time.Second)
	return out
}

func (g *GuardedStore) Close() error {
	return g.inner.Close()
}

func (g *GuardedStore) unavailable(op string, err error) error {
	metrics.CacheErrors.WithLabelValues(g.inner.Backend(), op).Inc()
	if breaker.IsRejected(err) {
		return fmt.Errorf("%w: %s rejected by open circuit", ErrUnavailable, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
