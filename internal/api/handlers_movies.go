// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/tomtom215/opuscine/internal/cache"
	"github.com/tomtom215/opuscine/internal/models"
	"github.com/tomtom215/opuscine/internal/ott"
	"github.com/tomtom215/opuscine/internal/recommend"
	"github.com/tomtom215/opuscine/internal/translate"
)

// OTTResponse is the body of the OTT lookup endpoints.
type OTTResponse struct {
	ID       int                    `json:"id"`
	Kind     models.MediaKind       `json:"kind"`
	OTTLinks []models.OTTLinkRecord `json:"ott_links"`
	Source   ott.Tier               `json:"source"`
}

// MovieDetailsResponse is provider details enriched with artwork URLs and
// streaming links.
type MovieDetailsResponse struct {
	*models.MovieDetails
	PosterURL   string                 `json:"poster_url"`
	BackdropURL string                 `json:"backdrop_url"`
	OTTLinks    []models.OTTLinkRecord `json:"ott_links"`
	OTTSource   ott.Tier               `json:"ott_source"`
}

// GenresResponse is the body of GET /api/v1/genres.
type GenresResponse struct {
	Genres []models.Genre `json:"genres"`
}

// Translate handles POST /api/v1/translate
//
// @Summary Translate a natural-language request into discover parameters
// @Tags Movies
// @Accept json
// @Produce json
// @Param request body TranslateRequest true "Free-text request"
// @Success 200 {object} APIResponse{data=models.TranslationResult}
// @Failure 400 {object} APIResponse
// @Router /api/v1/translate [post]
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req TranslateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	rw.Success(h.translator.Translate(ctx, req.Message))
}

// Recommend handles POST /api/v1/movies/recommend and the legacy
// POST /recommend.
//
// @Summary Recommend movies for a natural-language request
// @Description Translates the message, discovers matching movies and attaches streaming links
// @Tags Movies
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "Recommendation request"
// @Success 200 {object} APIResponse{data=recommend.Response}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse "Provider failure; details carry query_info"
// @Failure 503 {object} APIResponse
// @Router /api/v1/movies/recommend [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resp, err := h.recommend.Recommend(ctx, recommend.Request{
		Message: req.Message,
		UserID:  req.UserID,
		Page:    intOr(req.Page, recommend.DefaultPage),
		Limit:   intOr(req.Limit, recommend.DefaultLimit),
	})
	h.respondRecommendation(rw, resp, err)
}

// Query handles POST /api/v1/movies/query
//
// @Summary Discover movies for explicit parameters
// @Description Skips translation; parameters are passed to the provider as given
// @Tags Movies
// @Accept json
// @Produce json
// @Param request body QueryRequest true "Structured query"
// @Success 200 {object} APIResponse{data=recommend.Response}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/movies/query [post]
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req QueryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}
	params, err := translate.CleanParams(req.Parameters)
	if err != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, err.Error(),
			map[string]interface{}{"field": "parameters"})
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resp, err := h.recommend.Query(ctx, recommend.QueryRequest{
		Parameters: params,
		UserID:     req.UserID,
		Page:       intOr(req.Page, recommend.DefaultPage),
		Limit:      intOr(req.Limit, recommend.DefaultLimit),
	})
	h.respondRecommendation(rw, resp, err)
}

func (h *Handler) respondRecommendation(rw *ResponseWriter, resp *recommend.Response, err error) {
	if err != nil {
		var details interface{}
		if resp != nil {
			details = map[string]interface{}{"query_info": resp.QueryInfo}
		}
		rw.UpstreamError(err, details)
		return
	}
	rw.Success(resp)
}

// Popular handles GET /api/v1/movies/popular
//
// @Summary Popular movies with streaming links
// @Tags Movies
// @Produce json
// @Param page query int false "Page (1-1000)" default(1)
// @Param limit query int false "Items (1-100)" default(20)
// @Success 200 {object} APIResponse{data=recommend.PopularResponse}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/movies/popular [get]
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, pageOK := getIntParam(r, "page", recommend.DefaultPage)
	limit, limitOK := getIntParam(r, "limit", recommend.DefaultLimit)
	if !pageOK || !limitOK {
		rw.BadRequest("page and limit must be integers")
		return
	}
	req := PopularRequest{Page: page, Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resp, err := h.recommend.Popular(ctx, req.Page, req.Limit)
	if err != nil {
		rw.UpstreamError(err, nil)
		return
	}
	rw.Success(resp)
}

// MovieDetails handles GET /api/v1/movies/{id}
//
// @Summary Movie details with streaming links
// @Tags Movies
// @Produce json
// @Param id path int true "Provider movie id"
// @Success 200 {object} APIResponse{data=MovieDetailsResponse}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/movies/{id} [get]
func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	h.movieDetails(w, r, pathID(r))
}

// LegacyView handles GET /view?movieId=
func (h *Handler) LegacyView(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get("movieId"))
	h.movieDetails(w, r, id)
}

func (h *Handler) movieDetails(w http.ResponseWriter, r *http.Request, id int) {
	rw := NewResponseWriter(w, r)

	req := IDRequest{ID: id}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	details, err := h.details(ctx, req.ID)
	if err != nil {
		rw.UpstreamError(err, nil)
		return
	}

	resolution := h.resolver.ResolveDetailed(ctx, models.KindMovie, req.ID)
	rw.Success(MovieDetailsResponse{
		MovieDetails: details,
		PosterURL:    h.tmdb.ImageURL(details.PosterPath, ""),
		BackdropURL:  h.tmdb.ImageURL(details.BackdropPath, "original"),
		OTTLinks:     resolution.Links,
		OTTSource:    resolution.Tier,
	})
}

// details serves provider details from the short-lived provider cache.
func (h *Handler) details(ctx context.Context, id int) (*models.MovieDetails, error) {
	key := cache.GenerateKey("details", map[string]interface{}{"id": id, "language": h.tmdb.Language()})
	if cached, ok := h.providerCache.Get(key); ok {
		if details, ok := cached.(*models.MovieDetails); ok {
			return details, nil
		}
	}

	details, err := h.tmdb.MovieDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	h.providerCache.Add(key, details)
	return details, nil
}

// MovieOTT handles GET /api/v1/movies/{id}/ott
//
// @Summary Streaming links for a movie
// @Tags OTT
// @Produce json
// @Param id path int true "Catalog movie id"
// @Success 200 {object} APIResponse{data=OTTResponse}
// @Failure 400 {object} APIResponse
// @Router /api/v1/movies/{id}/ott [get]
func (h *Handler) MovieOTT(w http.ResponseWriter, r *http.Request) {
	h.resolveLinks(w, r, models.KindMovie)
}

// TVOTT handles GET /api/v1/tv/{id}/ott
//
// @Summary Streaming links for a tv series
// @Tags OTT
// @Produce json
// @Param id path int true "Catalog series id"
// @Success 200 {object} APIResponse{data=OTTResponse}
// @Failure 400 {object} APIResponse
// @Router /api/v1/tv/{id}/ott [get]
func (h *Handler) TVOTT(w http.ResponseWriter, r *http.Request) {
	h.resolveLinks(w, r, models.KindTV)
}

// resolveLinks always answers 200 for a valid id; an unknown title has an
// empty link list with source "miss".
func (h *Handler) resolveLinks(w http.ResponseWriter, r *http.Request, kind models.MediaKind) {
	rw := NewResponseWriter(w, r)

	req := IDRequest{ID: pathID(r)}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resolution := h.resolver.ResolveDetailed(ctx, kind, req.ID)
	rw.Success(OTTResponse{
		ID:       req.ID,
		Kind:     kind,
		OTTLinks: resolution.Links,
		Source:   resolution.Tier,
	})
}

// Genres handles GET /api/v1/genres
//
// @Summary Provider genre list
// @Tags Movies
// @Produce json
// @Success 200 {object} APIResponse{data=GenresResponse}
// @Failure 502 {object} APIResponse
// @Router /api/v1/genres [get]
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	key := cache.GenerateKey("genres", h.tmdb.Language())
	if cached, ok := h.providerCache.Get(key); ok {
		if genres, ok := cached.([]models.Genre); ok {
			rw.Success(GenresResponse{Genres: genres})
			return
		}
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	genres, err := h.tmdb.Genres(ctx)
	if err != nil {
		rw.UpstreamError(err, nil)
		return
	}
	h.providerCache.Add(key, genres)
	rw.Success(GenresResponse{Genres: genres})
}
