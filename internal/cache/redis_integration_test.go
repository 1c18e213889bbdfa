// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/testinfra"
)

func TestRedisStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redis, err := testinfra.NewRedisContainer(ctx)
	require.NoError(t, err)
	defer testinfra.CleanupContainer(t, ctx, redis.Container)

	store := NewRedisStore(config.RedisConfig{Host: redis.Host, Port: redis.Port}, 2*time.Second)
	defer store.Close()

	storeContract(t, store)

	require.NoError(t, store.Set(ctx, "movie:2:ott_links", []byte("[]"), time.Second))
	time.Sleep(1500 * time.Millisecond)
	_, err = store.Get(ctx, "movie:2:ott_links")
	assert.ErrorIs(t, err, ErrMiss, "redis expires entries by TTL")

	d := store.Describe(ctx)
	assert.Contains(t, d, "keys")
}

func TestRedisStore_UnreachableDegrades(t *testing.T) {
	cfg := testCacheConfig(config.CacheBackendRedis)
	cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: 1}
	cfg.OpTimeout = 200 * time.Millisecond

	g, err := Open(cfg)
	require.NoError(t, err)
	defer g.Close()

	_, err = g.Get(context.Background(), "movie:1:ott_links")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, g.Reachable(context.Background()))
}
