// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package models

// Method records which translation path produced a result.
type Method string

const (
	MethodModel Method = "model"
	MethodRule  Method = "rule"

	// MethodDirect marks caller-supplied parameters that skipped translation.
	MethodDirect Method = "direct"
)

// Discover parameter names understood by the metadata provider.
const (
	ParamLanguage       = "language"
	ParamSortBy         = "sort_by"
	ParamPage           = "page"
	ParamWithGenres     = "with_genres"
	ParamWithPeople     = "with_people"
	ParamOriginCountry  = "with_origin_country"
	ParamReleaseGTE     = "primary_release_date.gte"
	ParamReleaseLTE     = "primary_release_date.lte"
	ParamVoteAverageGTE = "vote_average.gte"
	ParamVoteAverageLTE = "vote_average.lte"
)

// Sort directives.
const (
	SortPopularityDesc  = "popularity.desc"
	SortVoteAverageDesc = "vote_average.desc"
	SortReleaseDateDesc = "release_date.desc"
)

// Params maps provider query-parameter names to a string, integer, float or
// a list of those.
type Params map[string]any

// Clone returns a shallow copy with list values copied.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		switch list := v.(type) {
		case []int:
			out[k] = append([]int(nil), list...)
		case []string:
			out[k] = append([]string(nil), list...)
		case []any:
			out[k] = append([]any(nil), list...)
		default:
			out[k] = v
		}
	}
	return out
}

// TranslationResult is the structured form of a free-text request.
// Parameters always include language and sort_by; Confidence is in [0,1].
type TranslationResult struct {
	Parameters   Params  `json:"parameters"`
	Confidence   float64 `json:"confidence"`
	Method       Method  `json:"method"`
	OriginalText string  `json:"original_text"`

	// FallbackReason is set when the rule path answered because the model
	// path failed.
	FallbackReason string `json:"fallback_reason,omitempty"`
}
