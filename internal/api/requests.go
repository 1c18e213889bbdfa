// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package api

// Request bodies and query structs. Optional numeric fields are pointers so
// that an explicit 0 is rejected while an absent field takes the default.

// TranslateRequest is the body of POST /api/v1/translate.
type TranslateRequest struct {
	Message string `json:"message" validate:"required,notblank,max=500"`
}

// RecommendRequest is the body of POST /api/v1/movies/recommend and the
// legacy POST /recommend.
type RecommendRequest struct {
	Message string `json:"message" validate:"required,notblank,max=500"`
	UserID  string `json:"user_id" validate:"max=128"`
	Page    *int   `json:"page" validate:"omitempty,min=1,max=1000"`
	Limit   *int   `json:"limit" validate:"omitempty,min=1,max=100"`
}

// QueryRequest is the body of POST /api/v1/movies/query.
type QueryRequest struct {
	Parameters map[string]interface{} `json:"parameters" validate:"required"`
	UserID     string                 `json:"user_id" validate:"max=128"`
	Page       *int                   `json:"page" validate:"omitempty,min=1,max=1000"`
	Limit      *int                   `json:"limit" validate:"omitempty,min=1,max=100"`
}

// PopularRequest holds the query of GET /api/v1/movies/popular.
type PopularRequest struct {
	Page  int `query:"page" validate:"min=1,max=1000"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// IDRequest holds a numeric path parameter.
type IDRequest struct {
	ID int `query:"id" validate:"gt=0"`
}

// RegisterLLMRequest is the body of POST /api/v1/admin/llm/register.
type RegisterLLMRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}
