// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// Package config loads OpusCine configuration using Koanf v2.
//
// Configuration Loading Order:
//  1. Defaults: built-in defaults for every setting
//  2. Config File: optional YAML file (CONFIG_PATH, config.yaml, /etc/opuscine/config.yaml)
//  3. Environment Variables: override any mapped setting (REDIS_HOST, TMDB_API_KEY, ...)
//
// Config is immutable after loading and safe for concurrent read access.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Cache      CacheConfig      `koanf:"cache"`
	TMDB       TMDBConfig       `koanf:"tmdb"`
	LLM        LLMConfig        `koanf:"llm"`
	Translator TranslatorConfig `koanf:"translator"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RequestTimeout bounds every handler, including all sub-calls it makes.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig locates the bulk OTT catalog files.
type CatalogConfig struct {
	MoviesPath string `koanf:"movies_path"`
	SeriesPath string `koanf:"series_path"`

	// Watch reloads the catalog when either file changes on disk.
	Watch bool `koanf:"watch"`

	// CrossCollectionFallback searches the movie collection first for every
	// lookup, including tv lookups. Catalogs built from inconsistently tagged
	// upstream data reuse one id space for both collections.
	CrossCollectionFallback bool `koanf:"cross_collection_fallback"`
}

// CacheConfig selects and tunes the OTT link cache.
type CacheConfig struct {
	// Backend is one of redis, badger or memory.
	Backend string `koanf:"backend"`

	// TTL is applied to every cache write.
	TTL time.Duration `koanf:"ttl"`

	// OpTimeout bounds a single cache get or set.
	OpTimeout time.Duration `koanf:"op_timeout"`

	Redis   RedisConfig   `koanf:"redis"`
	Badger  BadgerConfig  `koanf:"badger"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// RedisConfig holds the external Redis connection settings.
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// BadgerConfig holds the embedded cache settings.
type BadgerConfig struct {
	Path string `koanf:"path"`
}

// BreakerConfig tunes the circuit breaker in front of the cache.
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// TMDBConfig holds metadata provider settings.
type TMDBConfig struct {
	APIKey       string        `koanf:"api_key"`
	BaseURL      string        `koanf:"base_url"`
	ImageBaseURL string        `koanf:"image_base_url"`
	Language     string        `koanf:"language"`
	Timeout      time.Duration `koanf:"timeout"`
	Retries      uint          `koanf:"retries"`
}

// Configured reports whether provider calls can be made.
func (t TMDBConfig) Configured() bool {
	return t.APIKey != ""
}

// LLMConfig holds natural-language model server settings.
type LLMConfig struct {
	Enabled    bool          `koanf:"enabled"`
	BaseURL    string        `koanf:"base_url"`
	Model      string        `koanf:"model"`
	APIKey     string        `koanf:"api_key"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`

	// RatePerSecond and Burst limit model invocations. Requests over the
	// limit are translated by the rule path.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`

	// MemoTTL is how long successful model translations are reused.
	// Zero disables memoization.
	MemoTTL time.Duration `koanf:"memo_ttl"`
}

// AttemptBudget is the longest a model call can take with all retries.
func (c LLMConfig) AttemptBudget() time.Duration {
	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return c.Timeout * time.Duration(retries+1)
}

// TranslatorConfig holds rule-path defaults.
type TranslatorConfig struct {
	DefaultLanguage string `koanf:"default_language"`
	DefaultSort     string `koanf:"default_sort"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Caller     bool   `koanf:"caller"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}
