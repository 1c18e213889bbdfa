// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package translate converts a free-text recommendation request into provider
discover parameters.

Translation has two paths:

 1. Model path: the text is sent to the natural-language model together with
    the genre and director tables. The reply must contain a flat JSON object
    whose values are scalars or lists of scalars. Its outcome is recorded as
    a ModelAttempt. A successful attempt is memoized by normalized text.
 2. Rule path: deterministic keyword and pattern rules, applied in the order
    returned by Rules(). Later rules overwrite fields set by earlier ones.

Translate never fails. Any model-path failure (disabled, rate limited,
unavailable, malformed or empty output) falls through to the rule path, and
the result carries the reason in FallbackReason.

Input is normalized before matching (NFC, case folding, collapsed
whitespace). Hangul keywords match as substrings because Korean attaches
particles to nouns; other keywords match on word boundaries.

Rule order:

	genre          append genre codes in lexicon order
	origin_country "한국영화" or "korean" sets with_origin_country=KR
	year           last 4-digit token sets a Jan 1..Dec 31 range
	recency        lower bound becomes Jan 1 of last year
	classic        upper bound becomes 2000-12-31
	director       append person codes in lexicon order
	rating         vote_average.gte 7.0, or vote_average.lte 5.0
	sort           popularity, vote_average, release_date; last match wins
*/
package translate
