// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// Package testinfra provides container helpers for integration tests.
//
// Everything here is behind the "integration" build tag and needs Docker:
//
//	go test -tags integration ./internal/cache/...
//
// # Redis Container
//
//	func TestRedisStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis.Container)
//
//	    store := cache.NewRedisStore(config.RedisConfig{Host: redis.Host, Port: redis.Port}, time.Second)
//	}
package testinfra
