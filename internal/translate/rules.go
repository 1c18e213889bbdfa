// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package translate

import (
	"fmt"
	"regexp"
	"time"

	"github.com/tomtom215/opuscine/internal/models"
)

// RuleConfidence is the confidence reported for rule-path results.
const RuleConfidence = 0.75

// Fixed rule thresholds.
const (
	ClassicUpperBound = "2000-12-31"
	HighRatingFloor   = 7.0
	LowRatingCeiling  = 5.0
	OriginKorea       = "KR"
)

var yearPattern = regexp.MustCompile(`(\d{4})년?`)

// ruleInput is what every rule sees: normalized text and the current time.
type ruleInput struct {
	text string
	now  time.Time
}

// rule is one step of the rule path. Rules run in ruleOrder; a later rule
// overwrites fields set by an earlier one.
type rule struct {
	name  string
	apply func(p models.Params, in ruleInput)
}

var ruleOrder = []rule{
	{"genre", applyGenre},
	{"origin_country", applyOriginCountry},
	{"year", applyYear},
	{"recency", applyRecency},
	{"classic", applyClassic},
	{"director", applyDirector},
	{"rating", applyRating},
	{"sort", applySort},
}

// Rules returns the rule names in application order.
func Rules() []string {
	names := make([]string, len(ruleOrder))
	for i, r := range ruleOrder {
		names[i] = r.name
	}
	return names
}

// applyRules builds the rule-path parameters for normalized text.
func applyRules(text string, now time.Time, language, sortBy string) models.Params {
	p := models.Params{
		models.ParamLanguage: language,
		models.ParamSortBy:   sortBy,
	}
	in := ruleInput{text: text, now: now}
	for _, r := range ruleOrder {
		r.apply(p, in)
	}
	return p
}

// codesInLexiconOrder returns the distinct codes of matched keywords in
// lexicon order.
func codesInLexiconOrder(m *Matcher, lexicon []Keyword, text string) []int {
	hit := m.Matched(text)
	var codes []int
	seen := make(map[int]bool)
	for i, ok := range hit {
		if !ok || seen[lexicon[i].Code] {
			continue
		}
		seen[lexicon[i].Code] = true
		codes = append(codes, lexicon[i].Code)
	}
	return codes
}

func applyGenre(p models.Params, in ruleInput) {
	if codes := codesInLexiconOrder(genreMatcher, genreLexicon, in.text); len(codes) > 0 {
		p[models.ParamWithGenres] = codes
	}
}

func applyOriginCountry(p models.Params, in ruleInput) {
	if koreanOriginMatcher.Contains(in.text) {
		p[models.ParamOriginCountry] = OriginKorea
	}
}

// applyYear uses the last four-digit token in the text.
func applyYear(p models.Params, in ruleInput) {
	found := yearPattern.FindAllStringSubmatch(in.text, -1)
	if len(found) == 0 {
		return
	}
	year := found[len(found)-1][1]
	p[models.ParamReleaseGTE] = year + "-01-01"
	p[models.ParamReleaseLTE] = year + "-12-31"
}

// applyRecency moves the lower bound to January 1 of last year. An upper
// bound set by applyYear is left in place.
func applyRecency(p models.Params, in ruleInput) {
	if recencyMatcher.Contains(in.text) {
		p[models.ParamReleaseGTE] = fmt.Sprintf("%04d-01-01", in.now.Year()-1)
	}
}

func applyClassic(p models.Params, in ruleInput) {
	if classicMatcher.Contains(in.text) {
		p[models.ParamReleaseLTE] = ClassicUpperBound
	}
}

func applyDirector(p models.Params, in ruleInput) {
	if codes := codesInLexiconOrder(directorMatcher, directorLexicon, in.text); len(codes) > 0 {
		p[models.ParamWithPeople] = codes
	}
}

// applyRating prefers a positive keyword when both kinds occur.
func applyRating(p models.Params, in ruleInput) {
	switch {
	case positiveRatingMatcher.Contains(in.text):
		p[models.ParamVoteAverageGTE] = HighRatingFloor
	case negativeRatingMatcher.Contains(in.text):
		p[models.ParamVoteAverageLTE] = LowRatingCeiling
	}
}

// applySort checks popularity, then vote average, then release date; each
// match overwrites the previous one, so the last matching intent wins.
func applySort(p models.Params, in ruleInput) {
	if sortPopularityMatcher.Contains(in.text) {
		p[models.ParamSortBy] = models.SortPopularityDesc
	}
	if sortVoteMatcher.Contains(in.text) {
		p[models.ParamSortBy] = models.SortVoteAverageDesc
	}
	if sortReleaseMatcher.Contains(in.text) {
		p[models.ParamSortBy] = models.SortReleaseDateDesc
	}
}
