// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/models"
)

// Defaults for Request fields left at zero.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Translator turns free text into discover parameters.
// *translate.Translator implements it.
type Translator interface {
	Translate(ctx context.Context, text string) models.TranslationResult
}

// Provider is the subset of the metadata provider used here.
// *tmdb.Client implements it.
type Provider interface {
	ImageURLer
	Discover(ctx context.Context, params models.Params) (*models.Page, error)
	Popular(ctx context.Context, page int) (*models.Page, error)
}

// Request is a free-text recommendation request.
type Request struct {
	Message string
	UserID  string
	Page    int
	Limit   int
}

// QueryRequest is a recommendation request with caller-supplied discover
// parameters; translation is skipped.
type QueryRequest struct {
	Parameters models.Params
	UserID     string
	Page       int
	Limit      int
}

// Pagination describes the provider page the movies came from.
type Pagination struct {
	Page         int `json:"page"`
	Limit        int `json:"limit"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// QueryInfo reports how a request was interpreted and executed.
type QueryInfo struct {
	OriginalMessage  string        `json:"original_message"`
	TMDBParameters   models.Params `json:"tmdb_parameters"`
	Confidence       float64       `json:"confidence"`
	Method           models.Method `json:"method"`
	FallbackReason   string        `json:"fallback_reason,omitempty"`
	ProcessingTimeMS int64         `json:"processing_time_ms"`
	ExecutedAt       time.Time     `json:"executed_at"`
	UserID           string        `json:"user_id"`
	Pagination       Pagination    `json:"pagination"`
}

// Response is the result of a recommendation request.
type Response struct {
	Movies       []MovieItem `json:"movies"`
	TotalResults int         `json:"total_results"`
	QueryInfo    QueryInfo   `json:"query_info"`
}

// PopularResponse is one enriched page of the popular list.
type PopularResponse struct {
	Movies     []MovieItem `json:"movies"`
	Pagination Pagination  `json:"pagination"`
}

// Options configures a Service.
type Options struct {
	Translator  Translator
	Provider    Provider
	Resolver    LinkResolver
	Concurrency int

	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the recommendation flow.
type Service struct {
	translator Translator
	provider   Provider
	assembler  *Assembler
	now        func() time.Time
}

// NewService creates a Service.
func NewService(opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		translator: opts.Translator,
		provider:   opts.Provider,
		assembler:  NewAssembler(opts.Resolver, opts.Provider, opts.Concurrency),
		now:        now,
	}
}

// Assembler returns the service's result assembler.
func (s *Service) Assembler() *Assembler { return s.assembler }

// Recommend translates req.Message and discovers matching movies.
//
// On provider failure the returned Response is still non-nil with QueryInfo
// populated and no movies.
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := s.now()
	translation := s.translator.Translate(ctx, req.Message)

	info := QueryInfo{
		OriginalMessage: req.Message,
		Confidence:      translation.Confidence,
		Method:          translation.Method,
		FallbackReason:  translation.FallbackReason,
		UserID:          req.UserID,
	}
	return s.discover(ctx, start, translation.Parameters, req.Page, req.Limit, info)
}

// Query discovers movies for caller-supplied parameters.
func (s *Service) Query(ctx context.Context, req QueryRequest) (*Response, error) {
	start := s.now()
	info := QueryInfo{
		Confidence: 1,
		Method:     models.MethodDirect,
		UserID:     req.UserID,
	}
	return s.discover(ctx, start, req.Parameters, req.Page, req.Limit, info)
}

// Popular returns one enriched page of the popular list truncated to limit.
func (s *Service) Popular(ctx context.Context, page, limit int) (*PopularResponse, error) {
	page, limit = withDefaults(page, limit)

	result, err := s.provider.Popular(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("popular: %w", err)
	}
	return &PopularResponse{
		Movies: s.assembler.Assemble(ctx, truncate(result.Results, limit)),
		Pagination: Pagination{
			Page:         result.Page,
			Limit:        limit,
			TotalPages:   result.TotalPages,
			TotalResults: result.TotalResults,
		},
	}, nil
}

func (s *Service) discover(ctx context.Context, start time.Time, params models.Params, page, limit int, info QueryInfo) (*Response, error) {
	page, limit = withDefaults(page, limit)

	params = params.Clone()
	params[models.ParamPage] = page

	info.TMDBParameters = params
	info.ExecutedAt = start
	info.Pagination = Pagination{Page: page, Limit: limit}

	resp := &Response{Movies: []MovieItem{}}
	finish := func() (*Response, error) {
		resp.QueryInfo = info
		resp.QueryInfo.ProcessingTimeMS = s.now().Sub(start).Milliseconds()
		return resp, nil
	}

	result, err := s.provider.Discover(ctx, params)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("method", string(info.Method)).Msg("Provider discover failed")
		resp, _ = finish()
		return resp, fmt.Errorf("discover: %w", err)
	}

	resp.Movies = s.assembler.Assemble(ctx, truncate(result.Results, limit))
	resp.TotalResults = result.TotalResults
	info.Pagination.TotalPages = result.TotalPages
	info.Pagination.TotalResults = result.TotalResults
	if result.Page > 0 {
		info.Pagination.Page = result.Page
	}

	logging.Ctx(ctx).Debug().
		Str("method", string(info.Method)).
		Int("results", len(resp.Movies)).
		Int("total_results", resp.TotalResults).
		Msg("Recommendation assembled")
	return finish()
}

func withDefaults(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return page, limit
}

func truncate(movies []models.Movie, limit int) []models.Movie {
	if len(movies) > limit {
		return movies[:limit]
	}
	return movies
}
