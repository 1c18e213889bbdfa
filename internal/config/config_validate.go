// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package config

import (
	"fmt"
	"strings"
	"time"
)

// Cache backends accepted by cache.backend.
const (
	CacheBackendRedis  = "redis"
	CacheBackendBadger = "badger"
	CacheBackendMemory = "memory"
)

// Upstream call bounds. Provider and model calls must stay caller-visible,
// cache calls must stay short so a degraded cache never stalls the fast path.
const (
	MinUpstreamTimeout = 5 * time.Second
	MaxUpstreamTimeout = 30 * time.Second
	MaxCacheOpTimeout  = 5 * time.Second
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.MoviesPath == "" && c.Catalog.SeriesPath == "" {
		return fmt.Errorf("at least one of catalog.movies_path or catalog.series_path is required")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch strings.ToLower(c.Cache.Backend) {
	case CacheBackendRedis:
		if c.Cache.Redis.Host == "" {
			return fmt.Errorf("cache.redis.host is required for the redis backend")
		}
	case CacheBackendBadger:
		if c.Cache.Badger.Path == "" {
			return fmt.Errorf("cache.badger.path is required for the badger backend")
		}
	case CacheBackendMemory:
	default:
		return fmt.Errorf("cache.backend must be one of redis, badger, memory; got %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Cache.OpTimeout <= 0 || c.Cache.OpTimeout > MaxCacheOpTimeout {
		return fmt.Errorf("cache.op_timeout must be in (0, %s], got %s", MaxCacheOpTimeout, c.Cache.OpTimeout)
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if err := validateUpstreamTimeout("tmdb.timeout", c.TMDB.Timeout); err != nil {
		return err
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url is required")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required when llm.enabled=true")
	}
	if err := validateUpstreamTimeout("llm.timeout", c.LLM.Timeout); err != nil {
		return err
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative")
	}
	if c.LLM.RatePerSecond < 0 || c.LLM.Burst < 0 {
		return fmt.Errorf("llm.rate_per_second and llm.burst must not be negative")
	}
	// Every attempt may run to llm.timeout; the rule fallback and the
	// provider call still need time inside the same request.
	if total := c.LLM.AttemptBudget(); total >= c.Server.RequestTimeout {
		return fmt.Errorf("llm.timeout * (llm.max_retries + 1) = %s must be below server.request_timeout (%s)",
			total, c.Server.RequestTimeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("security.rate_limit_requests must be positive")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
}

func validateUpstreamTimeout(name string, d time.Duration) error {
	if d < MinUpstreamTimeout || d > MaxUpstreamTimeout {
		return fmt.Errorf("%s must be between %s and %s, got %s", name, MinUpstreamTimeout, MaxUpstreamTimeout, d)
	}
	return nil
}
