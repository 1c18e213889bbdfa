// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/opuscine/internal/breaker"
	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/metrics"
	"github.com/tomtom215/opuscine/internal/models"
)

const (
	// DefaultImageSize is used by ImageURL when no size is given.
	DefaultImageSize = "w500"

	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultLanguage     = "ko-KR"
	defaultTimeout      = 10 * time.Second
	defaultRetryDelay   = 300 * time.Millisecond
	defaultRetryMax     = 3 * time.Second
	maxErrorBody        = 512
)

var (
	// ErrNotConfigured is returned by every call when no API key is set.
	ErrNotConfigured = errors.New("tmdb: api key not configured")

	// ErrNotFound is returned for a 404 answer.
	ErrNotFound = errors.New("tmdb: not found")

	// ErrUnauthorized is returned for a 401 answer (bad or revoked key).
	ErrUnauthorized = errors.New("tmdb: unauthorized")
)

// StatusError is a non-2xx provider answer that maps to no sentinel.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: http %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed when retried.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client talks to the provider REST API.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	breaker      *breaker.Breaker

	retries    uint
	retryDelay time.Duration
	retryMax   time.Duration
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

// WithRetryBackoff overrides the retry delays.
func WithRetryBackoff(delay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = delay
		c.retryMax = maxDelay
	}
}

// WithBreaker replaces the default "tmdb" breaker.
func WithBreaker(b *breaker.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

// New creates a client from the provider configuration. A missing API key
// is not an error here; calls then fail with ErrNotConfigured.
func New(cfg config.TMDBConfig, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("tmdb: invalid base url %q", cfg.BaseURL)
	}

	imageBase := strings.TrimRight(strings.TrimSpace(cfg.ImageBaseURL), "/")
	if imageBase == "" {
		imageBase = defaultImageBaseURL
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = defaultLanguage
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		baseURL:      base,
		imageBaseURL: imageBase,
		language:     language,
		httpClient:   &http.Client{Timeout: timeout},
		retries:      cfg.Retries,
		retryDelay:   defaultRetryDelay,
		retryMax:     defaultRetryMax,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = breaker.New(breaker.Settings{
			Name:             "tmdb",
			MaxRequests:      1,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
			IsExcluded:       isClientError,
		})
	}
	return c, nil
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Language returns the default response language.
func (c *Client) Language() string { return c.language }

// BreakerState returns the provider breaker state.
func (c *Client) BreakerState() string { return c.breaker.State() }

// Discover queries /discover/movie. Missing language, sort_by and page get
// defaults; list values are joined with commas.
func (c *Client) Discover(ctx context.Context, params models.Params) (*models.Page, error) {
	query := url.Values{}
	query.Set(models.ParamLanguage, c.language)
	query.Set(models.ParamSortBy, models.SortPopularityDesc)
	query.Set(models.ParamPage, "1")
	for key, value := range params {
		formatted, ok := formatParam(value)
		if !ok {
			continue
		}
		query.Set(key, formatted)
	}

	var page models.Page
	if err := c.get(ctx, "discover", "/discover/movie", query, &page); err != nil {
		return nil, err
	}
	return normalizePage(&page), nil
}

// MovieDetails fetches one movie with credits, videos and images appended.
func (c *Client) MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error) {
	if id <= 0 {
		return nil, errors.New("tmdb: movie id must be positive")
	}
	query := c.baseQuery()
	query.Set("append_to_response", "credits,videos,images")

	var details models.MovieDetails
	if err := c.get(ctx, "movie_details", "/movie/"+strconv.Itoa(id), query, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// SearchMovies searches movie titles.
func (c *Client) SearchMovies(ctx context.Context, text string, page int) (*models.Page, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("tmdb: query must not be empty")
	}
	query := c.baseQuery()
	query.Set("query", text)
	query.Set(models.ParamPage, strconv.Itoa(max(page, 1)))

	var result models.Page
	if err := c.get(ctx, "search", "/search/movie", query, &result); err != nil {
		return nil, err
	}
	return normalizePage(&result), nil
}

// Genres returns the movie genre list in the client language.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	var payload struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.get(ctx, "genres", "/genre/movie/list", c.baseQuery(), &payload); err != nil {
		return nil, err
	}
	if payload.Genres == nil {
		payload.Genres = []models.Genre{}
	}
	return payload.Genres, nil
}

// Popular returns one page of the popular movie list.
func (c *Client) Popular(ctx context.Context, page int) (*models.Page, error) {
	query := c.baseQuery()
	query.Set(models.ParamPage, strconv.Itoa(max(page, 1)))

	var result models.Page
	if err := c.get(ctx, "popular", "/movie/popular", query, &result); err != nil {
		return nil, err
	}
	return normalizePage(&result), nil
}

// Credits returns cast and crew of one movie.
func (c *Client) Credits(ctx context.Context, id int) (*models.Credits, error) {
	if id <= 0 {
		return nil, errors.New("tmdb: movie id must be positive")
	}
	var credits models.Credits
	if err := c.get(ctx, "credits", "/movie/"+strconv.Itoa(id)+"/credits", c.baseQuery(), &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// Ping checks connectivity and the API key against /configuration.
func (c *Client) Ping(ctx context.Context) error {
	var ignored json.RawMessage
	return c.get(ctx, "configuration", "/configuration", url.Values{}, &ignored)
}

// ImageURL builds an artwork URL. An empty path yields "".
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = DefaultImageSize
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.imageBaseURL + "/" + size + path
}

func (c *Client) baseQuery() url.Values {
	query := url.Values{}
	query.Set(models.ParamLanguage, c.language)
	return query
}

// get performs one logical GET with retries inside the breaker and decodes
// the body into out.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) (err error) {
	if !c.Configured() {
		return ErrNotConfigured
	}

	start := time.Now()
	defer func() {
		metrics.RecordProviderRequest(endpoint, time.Since(start), err)
	}()

	query.Set("api_key", c.apiKey)
	target := c.baseURL + path + "?" + query.Encode()

	err = retry.Do(
		func() error {
			callErr := c.breaker.Do(func() error {
				return c.send(ctx, target, out)
			})
			if breaker.IsRejected(callErr) {
				return retry.Unrecoverable(fmt.Errorf("tmdb: %w", callErr))
			}
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(c.retries+1),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(c.retryMax),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			logging.Ctx(ctx).Debug().Err(err).Str("endpoint", endpoint).Uint("attempt", n+1).Msg("Provider request failed, retrying")
		}),
	)
	return err
}

func (c *Client) send(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("tmdb: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("tmdb: request: %w", redactKey(err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb: decode response: %w", err)
	}
	return nil
}

func isRetryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}

// isClientError excludes answers that say nothing about provider health.
func isClientError(err error) bool {
	if breaker.IsCallerCancellation(err) {
		return true
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return !statusErr.Temporary()
	}
	return false
}

// redactKey strips the query string from url.Error messages so the API key
// never reaches the logs.
func redactKey(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
			u.RawQuery = ""
			urlErr.URL = u.String()
		}
	}
	return err
}

func normalizePage(page *models.Page) *models.Page {
	if page.Results == nil {
		page.Results = []models.Movie{}
	}
	return page
}

// formatParam renders a parameter value as the provider expects it.
// Unsupported values are dropped.
func formatParam(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return v.String(), true
	case []int:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ","), true
	case []string:
		return strings.Join(v, ","), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := formatParam(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}
