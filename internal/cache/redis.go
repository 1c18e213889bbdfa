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

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/opuscine/internal/config"
)

// RedisStore implements Store on an external Redis server.
type RedisStore struct {
	client *redis.Client
	addr   string
}

// NewRedisStore creates a client for cfg. The connection is established
// lazily, so an unreachable server surfaces on the first operation.
func NewRedisStore(cfg config.RedisConfig, opTimeout time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
		MaxRetries:   1,

		ContextTimeoutEnabled: true,
	})
	return &RedisStore{client: client, addr: cfg.Addr()}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Backend() string { return config.CacheBackendRedis }

// Describe reports the server address and database size.
func (s *RedisStore) Describe(ctx context.Context) map[string]any {
	out := map[string]any{"addr": s.addr}
	if n, err := s.client.DBSize(ctx).Result(); err == nil {
		out["keys"] = n
	} else {
		out["error"] = err.Error()
	}
	return out
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
