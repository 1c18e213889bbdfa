// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/opuscine/internal/cache"
	"github.com/tomtom215/opuscine/internal/logging"
)

// Registry keys and lifetime.
const (
	RegistryKey          = "llm:server_url"
	RegistryTimestampKey = "llm:server_registered_at"
	RegistryTTL          = 24 * time.Hour
)

// Endpoint sources reported by Registry.Info.
const (
	SourceRegistered = "registered"
	SourceConfigured = "configured"
)

// KV is the subset of cache.Store the registry needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EndpointInfo describes the effective model server URL.
type EndpointInfo struct {
	URL          string     `json:"url"`
	Source       string     `json:"source"`
	Configured   string     `json:"configured_url"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
}

// Registry lets a model server announce its public URL at runtime. A
// registered URL lives in the KV cache for RegistryTTL and takes precedence
// over the configured one.
type Registry struct {
	kv         KV
	configured string
	opTimeout  time.Duration
}

// NewRegistry creates a registry over kv. kv may be nil, in which case the
// configured URL is always used and Register fails.
func NewRegistry(kv KV, configured string, opTimeout time.Duration) *Registry {
	if opTimeout <= 0 {
		opTimeout = 2 * time.Second
	}
	return &Registry{kv: kv, configured: strings.TrimSpace(configured), opTimeout: opTimeout}
}

// Endpoint returns the registered URL if one is present, otherwise the
// configured URL. Any cache error falls back to the configured URL.
func (r *Registry) Endpoint(ctx context.Context) string {
	return r.Info(ctx).URL
}

// Info is Endpoint plus where the URL came from.
func (r *Registry) Info(ctx context.Context) EndpointInfo {
	info := EndpointInfo{URL: r.configured, Source: SourceConfigured, Configured: r.configured}
	if r.kv == nil {
		return info
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	data, err := r.kv.Get(ctx, RegistryKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logging.Ctx(ctx).Debug().Err(err).Msg("Model registry lookup failed, using configured URL")
		}
		return info
	}
	registered := strings.TrimSpace(string(data))
	if registered == "" {
		return info
	}
	info.URL = registered
	info.Source = SourceRegistered

	if ts, err := r.kv.Get(ctx, RegistryTimestampKey); err == nil {
		if at, err := time.Parse(time.RFC3339, string(ts)); err == nil {
			info.RegisteredAt = &at
		}
	}
	return info
}

// Register stores rawURL as the model server base URL.
func (r *Registry) Register(ctx context.Context, rawURL string) (EndpointInfo, error) {
	normalized, err := ValidateURL(rawURL)
	if err != nil {
		return EndpointInfo{}, err
	}
	if r.kv == nil {
		return EndpointInfo{}, errors.New("llm registry: no cache configured")
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	if err := r.kv.Set(ctx, RegistryKey, []byte(normalized), RegistryTTL); err != nil {
		return EndpointInfo{}, fmt.Errorf("llm registry: store url: %w", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	if err := r.kv.Set(ctx, RegistryTimestampKey, []byte(now.Format(time.RFC3339)), RegistryTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Store model registration time")
	}

	logging.Ctx(ctx).Info().
		Str("url", normalized).
		Str("previous", r.configured).
		Msg("Model server registered")

	return EndpointInfo{
		URL:          normalized,
		Source:       SourceRegistered,
		Configured:   r.configured,
		RegisteredAt: &now,
	}, nil
}

// ValidateURL accepts absolute http and https URLs and strips a trailing
// slash.
func ValidateURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid url %q: scheme must be http or https", trimmed)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", trimmed)
	}
	return strings.TrimRight(trimmed, "/"), nil
}
