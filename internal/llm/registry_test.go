// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/opuscine/internal/cache"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, cache.ErrUnavailable
}

func (failingKV) Set(context.Context, string, []byte, time.Duration) error {
	return cache.ErrUnavailable
}

func TestRegistryFallsBackToConfigured(t *testing.T) {
	t.Parallel()

	store := cache.NewMemoryStore()
	defer store.Close()

	reg := NewRegistry(store, "http://localhost:8001", time.Second)
	info := reg.Info(context.Background())
	if info.URL != "http://localhost:8001" || info.Source != SourceConfigured {
		t.Errorf("unexpected info %+v", info)
	}
	if info.RegisteredAt != nil {
		t.Errorf("RegisteredAt should be nil for configured URL")
	}
}

func TestRegistryRegisterTakesPrecedence(t *testing.T) {
	t.Parallel()

	store := cache.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	reg := NewRegistry(store, "http://localhost:8001", time.Second)
	got, err := reg.Register(ctx, " https://abc123.ngrok.io/ ")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got.URL != "https://abc123.ngrok.io" {
		t.Errorf("registered URL = %q", got.URL)
	}

	if ep := reg.Endpoint(ctx); ep != "https://abc123.ngrok.io" {
		t.Errorf("Endpoint = %q", ep)
	}
	info := reg.Info(ctx)
	if info.Source != SourceRegistered || info.Configured != "http://localhost:8001" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.RegisteredAt == nil {
		t.Error("RegisteredAt should be set")
	}
}

func TestRegistryUnreachableCache(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(failingKV{}, "http://localhost:8001", time.Second)
	if ep := reg.Endpoint(context.Background()); ep != "http://localhost:8001" {
		t.Errorf("Endpoint = %q", ep)
	}
	if _, err := reg.Register(context.Background(), "https://example.com"); !errors.Is(err, cache.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestRegistryNilKV(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil, "http://localhost:8001", 0)
	if ep := reg.Endpoint(context.Background()); ep != "http://localhost:8001" {
		t.Errorf("Endpoint = %q", ep)
	}
	if _, err := reg.Register(context.Background(), "https://example.com"); err == nil {
		t.Error("expected error without a cache")
	}
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://abc.ngrok.io", want: "https://abc.ngrok.io"},
		{in: "http://10.0.0.5:8001/", want: "http://10.0.0.5:8001"},
		{in: "ftp://host", wantErr: true},
		{in: "abc.ngrok.io", wantErr: true},
		{in: "https://", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ValidateURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ValidateURL(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ValidateURL(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
