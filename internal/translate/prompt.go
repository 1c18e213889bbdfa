// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package translate

import (
	"fmt"
	"strings"
	"time"
)

// systemPrompt builds the instructions sent with every model call. The
// genre and director tables come from the same lexicons the rule path uses.
func systemPrompt(now time.Time, language, sortBy string) string {
	var b strings.Builder

	b.WriteString("You convert a user's movie recommendation request, usually written in Korean, ")
	b.WriteString("into TMDB discover API query parameters. Answer with a single JSON object and nothing else.\n\n")

	b.WriteString("1. Genre ids:\n")
	writeLexicon(&b, genreLexicon)

	b.WriteString("\n2. Person ids (directors):\n")
	writeLexicon(&b, directorLexicon)

	fmt.Fprintf(&b, `
3. Output format (JSON only, omit keys that do not apply):
{
  "with_genres": [genre ids],
  "with_people": [person ids],
  "with_origin_country": "ISO 3166-1 code",
  "primary_release_date.gte": "YYYY-MM-DD",
  "primary_release_date.lte": "YYYY-MM-DD",
  "vote_average.gte": minimum rating,
  "vote_average.lte": maximum rating,
  "sort_by": "popularity.desc | vote_average.desc | release_date.desc",
  "language": "%s",
  "confidence": 0.0-1.0
}

4. Special cases:
  - "최신", "최근", "latest", "recent": primary_release_date.gte = "%d-01-01"
  - "고전", "오래된", "classic": primary_release_date.lte = "%s"
  - "명작", "걸작", "masterpiece": vote_average.gte = %.1f
  - "한국영화", "korean": with_origin_country = "%s"
  - default sort_by is "%s"
`, language, now.Year()-1, ClassicUpperBound, HighRatingFloor, OriginKorea, sortBy)

	return b.String()
}

func writeLexicon(b *strings.Builder, lexicon []Keyword) {
	for _, kw := range lexicon {
		fmt.Fprintf(b, "   - %s: %d\n", kw.Text, kw.Code)
	}
}

func userPrompt(text string) string {
	return "Request: " + text + "\n\nJSON:"
}
