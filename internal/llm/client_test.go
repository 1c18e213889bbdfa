// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func completionBody(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

func testConfig(baseURL string) Config {
	return Config{
		Enabled:    true,
		BaseURL:    baseURL,
		Model:      "demo-model",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	}
}

func TestClientComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "demo-model" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Temperature != 0.1 || req.MaxTokens != 512 {
			t.Errorf("temperature=%v max_tokens=%d", req.Temperature, req.MaxTokens)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "user text" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		_ = json.NewEncoder(w).Encode(completionBody(`{"with_genres":[28]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	content, err := client.Complete(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != `{"with_genres":[28]}` {
		t.Errorf("content = %q", content)
	}
}

func TestClientCompleteLegacyText(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"text": `{"ok":true}`}},
		})
	}))
	defer server.Close()

	content, err := NewClient(testConfig(server.URL)).Complete(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != `{"ok":true}` {
		t.Errorf("content = %q", content)
	}
}

func TestClientRetriesOn503(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("warming up"))
			return
		}
		_ = json.NewEncoder(w).Encode(completionBody(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithRetryBackoff(time.Millisecond, time.Millisecond))
	if _, err := client.Complete(context.Background(), "s", "u"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestClientDoesNotRetryOn400(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), WithRetryBackoff(time.Millisecond, time.Millisecond))
	_, err := client.Complete(context.Background(), "s", "u")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	var statusErr *httpStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected wrapped 400, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestClientEmptyContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionBody("   "))
	}))
	defer server.Close()

	_, err := NewClient(testConfig(server.URL)).Complete(context.Background(), "s", "u")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestClientDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://127.0.0.1:1")
	cfg.Enabled = false
	_, err := NewClient(cfg).Complete(context.Background(), "s", "u")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestClientRateLimited(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(completionBody(`{"ok":true}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RatePerSecond = 0.001
	cfg.Burst = 1
	client := NewClient(cfg)

	if _, err := client.Complete(context.Background(), "s", "u"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := client.Complete(context.Background(), "s", "u"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("second call: expected ErrRateLimited, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}
}

func TestClientCancelledContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(testConfig(server.URL)).Complete(ctx, "s", "u")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

type staticEndpoint string

func (s staticEndpoint) Endpoint(context.Context) string { return string(s) }

func TestClientUsesEndpointSource(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionBody(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(testConfig("http://127.0.0.1:1"), WithEndpointSource(staticEndpoint(server.URL)))
	if got := client.BaseURL(context.Background()); got != server.URL {
		t.Fatalf("BaseURL = %q, want %q", got, server.URL)
	}
	if _, err := client.Complete(context.Background(), "s", "u"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
}

func TestCompletionsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		want string
	}{
		{"http://llm:8001", "http://llm:8001/v1/chat/completions"},
		{"http://llm:8001/", "http://llm:8001/v1/chat/completions"},
		{"https://x.ngrok.io/v1", "https://x.ngrok.io/v1/chat/completions"},
		{"https://x.ngrok.io/v1/chat/completions", "https://x.ngrok.io/v1/chat/completions"},
	}
	for _, tt := range tests {
		if got := completionsURL(tt.base); got != tt.want {
			t.Errorf("completionsURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
