// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package cache provides the key-value tier used for OTT link resolution and
the in-process caches used for memoization.

# Stores

Store is a byte-oriented KV contract with three backends:

  - RedisStore: external Redis (the default)
  - BadgerStore: embedded BadgerDB with native TTL, for single-node deployments
  - MemoryStore: process-local TTL map, for development and tests

Every backend is wrapped in a GuardedStore, which bounds each operation with
a short timeout and puts a circuit breaker in front of it. The guarded store
is what the rest of the application sees: any error it returns other than
ErrMiss wraps ErrUnavailable, and callers treat that as "cache unreachable"
and degrade to the catalog.

# Keys

Keys are plain strings. OTT link entries use "{kind}:{id}:ott_links"; the
model registry uses "llm:server_url". Nothing here enumerates keys.

# TTL Cache

Cache is a thread-safe map with per-entry expiry and hit/miss statistics.
Expired entries are removed lazily on Get and by a background sweep every
five minutes. Close stops the sweep.

	memo := cache.New(10 * time.Minute)
	defer memo.Close()
	memo.Set(cache.GenerateKey("translate", text), result)

# LRU Cache

LRUCache holds arbitrary values with a capacity bound as well as a TTL. The
API layer uses it for provider responses, whose key space is unbounded.
*/
package cache
