// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/metrics"
)

const (
	chatCompletionsPath   = "/v1/chat/completions"
	defaultHTTPTimeout    = 30 * time.Second
	defaultTemperature    = 0.1
	defaultMaxTokens      = 512
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryMaxDelay  = 5 * time.Second
	maxErrorBodyBytes     = 512
)

var (
	// ErrDisabled is returned when the model path is switched off.
	ErrDisabled = errors.New("llm: disabled")

	// ErrRateLimited is returned when the local invocation budget is spent.
	// The call is not attempted.
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrUnavailable wraps transport failures and non-2xx responses.
	ErrUnavailable = errors.New("llm: unavailable")
)

// Config captures the runtime settings required to talk to the model server.
type Config struct {
	Enabled       bool
	BaseURL       string
	Model         string
	APIKey        string
	Timeout       time.Duration
	MaxRetries    int
	RatePerSecond float64
	Burst         int
}

// ConfigFrom maps the service configuration onto a client Config.
func ConfigFrom(cfg config.LLMConfig) Config {
	return Config{
		Enabled:       cfg.Enabled,
		BaseURL:       cfg.BaseURL,
		Model:         cfg.Model,
		APIKey:        cfg.APIKey,
		Timeout:       cfg.Timeout,
		MaxRetries:    cfg.MaxRetries,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	}
}

// EndpointSource yields the model server base URL for a call.
type EndpointSource interface {
	Endpoint(ctx context.Context) string
}

// Client wraps an OpenAI-compatible chat completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoints  EndpointSource

	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpointSource resolves the base URL per call instead of using
// Config.BaseURL.
func WithEndpointSource(src EndpointSource) Option {
	return func(c *Client) {
		c.endpoints = src
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// NewClient constructs a model client.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		cfg:            cfg,
		httpClient:     &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(limit, burst),
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether the model path is configured on.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.Enabled
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

// BaseURL returns the base URL the next call would use.
func (c *Client) BaseURL(ctx context.Context) string {
	if c.endpoints != nil {
		if u := strings.TrimSpace(c.endpoints.Endpoint(ctx)); u != "" {
			return u
		}
	}
	return c.cfg.BaseURL
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
		// Legacy completion-style servers answer with "text".
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

func (e *httpStatusError) retryable() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// Complete sends one system and one user message and returns the content of
// the first non-empty choice.
//
// Errors: ErrDisabled, ErrRateLimited, ErrUnavailable (wrapped) for
// transport and status failures, ErrEmptyResponse when the server answered
// without content, or the context error.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	if !c.limiter.Allow() {
		return "", ErrRateLimited
	}

	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}
	endpoint := completionsURL(c.BaseURL(ctx))

	start := time.Now()
	defer func() {
		metrics.ModelCallDuration.Observe(time.Since(start).Seconds())
	}()

	attempts := uint(c.cfg.MaxRetries) + 1
	if c.cfg.MaxRetries < 0 {
		attempts = 1
	}

	content, err := retry.DoWithData(
		func() (string, error) {
			return c.sendOnce(ctx, endpoint, payload)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.retryBaseDelay),
		retry.MaxDelay(c.retryMaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			logging.Ctx(ctx).Debug().Err(err).Uint("attempt", n+1).Msg("Model call attempt failed")
		}),
	)
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *Client) sendOnce(ctx context.Context, endpoint string, payload chatCompletionRequest) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("llm request: encode body: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("%w: build request: %w", ErrUnavailable, err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       snippet(body),
		})
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoJSONObject, snippet(body))
	}
	if completion.Error != nil {
		return "", fmt.Errorf("%w: api error: %s", ErrUnavailable, strings.TrimSpace(completion.Error.Message))
	}
	for _, choice := range completion.Choices {
		if content := firstNonEmpty(choice.Message.Content, choice.Text); content != "" {
			return content, nil
		}
	}
	return "", ErrEmptyResponse
}

func isRetryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.retryable()
	}
	return errors.Is(err, ErrUnavailable)
}

// completionsURL appends the chat completions path unless base already
// names it.
func completionsURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + chatCompletionsPath
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyBytes {
		s = s[:maxErrorBodyBytes] + "...(" + strconv.Itoa(len(s)) + " bytes)"
	}
	return s
}
