// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/opuscine/config.yaml",
	"/etc/opuscine/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// Catalog paths match the layout the catalog export tool produces.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Catalog: CatalogConfig{
			MoviesPath:              "data/movie/tmdb_movies_hybrid_final.json",
			SeriesPath:              "data/tv series/tmdb_tv_series_final.json",
			Watch:                   false,
			CrossCollectionFallback: true,
		},
		Cache: CacheConfig{
			Backend:   "redis",
			TTL:       24 * time.Hour,
			OpTimeout: 2 * time.Second,
			Redis: RedisConfig{
				Host: "localhost",
				Port: 6379,
				DB:   0,
			},
			Badger: BadgerConfig{
				Path: "data/cache",
			},
			Breaker: BreakerConfig{
				MaxRequests:      3,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "ko-KR",
			Timeout:      10 * time.Second,
			Retries:      3,
		},
		LLM: LLMConfig{
			Enabled:       true,
			BaseURL:       "http://localhost:8001",
			Model:         "LGAI-EXAONE/EXAONE-3.5-7.8B-Instruct",
			Timeout:       10 * time.Second,
			MaxRetries:    1,
			RatePerSecond: 5,
			Burst:         10,
			MemoTTL:       10 * time.Minute,
		},
		Translator: TranslatorConfig{
			DefaultLanguage: "ko-KR",
			DefaultSort:     "popularity.desc",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Caller:     false,
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}

// Default returns the built-in configuration without consulting files or the environment.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config File (first of CONFIG_PATH and DefaultConfigPaths that exists)
//  3. Environment Variables
func LoadWithKoanf() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file path.
// An empty path skips the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// REDIS_HOST -> cache.redis.host, TMDB_API_KEY -> tmdb.api_key
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// The names follow the deployment environment of the existing proxy and
// API servers so their .env files keep working.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"port":             "server.port",
	"http_timeout":     "server.request_timeout",
	"request_timeout":  "server.request_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Catalog
	"movie_data_path":           "catalog.movies_path",
	"tv_data_path":              "catalog.series_path",
	"catalog_watch":             "catalog.watch",
	"cross_collection_fallback": "catalog.cross_collection_fallback",

	// Cache
	"cache_backend":    "cache.backend",
	"cache_ttl":        "cache.ttl",
	"cache_op_timeout": "cache.op_timeout",
	"redis_host":       "cache.redis.host",
	"redis_port":       "cache.redis.port",
	"redis_password":   "cache.redis.password",
	"redis_db":         "cache.redis.db",
	"badger_path":      "cache.badger.path",

	// Metadata provider
	"tmdb_api_key":        "tmdb.api_key",
	"tmdb_base_url":       "tmdb.base_url",
	"tmdb_image_base_url": "tmdb.image_base_url",
	"tmdb_language":       "tmdb.language",
	"tmdb_timeout":        "tmdb.timeout",

	// Model server
	"llm_enabled":    "llm.enabled",
	"llm_server_url": "llm.base_url",
	"llm_model":      "llm.model",
	"llm_api_key":    "llm.api_key",
	"llm_timeout":    "llm.timeout",
	"llm_rate":       "llm.rate_per_second",
	"llm_burst":      "llm.burst",
	"llm_memo_ttl":   "llm.memo_ttl",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
	"log_file":   "logging.file",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables are skipped so unrelated environment never pollutes config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchFile calls onChange whenever path changes on disk. The watch ends
// after the first error, such as the file being removed, which is passed to
// onError. The catalog watcher uses this to hot-reload the bulk OTT data.
func WatchFile(path string, onChange func(), onError func(error)) (unwatch func() error, err error) {
	provider := file.Provider(path)
	err = provider.Watch(func(_ interface{}, werr error) {
		if werr != nil {
			if onError != nil {
				onError(werr)
			}
			return
		}
		onChange()
	})
	if err != nil {
		return nil, err
	}
	return provider.Unwatch, nil
}
