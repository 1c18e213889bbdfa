// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package translate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for keyword matching: NFC composition (so
// decomposed jamo from some IMEs match precomposed lexicon entries), Unicode
// case folding, and whitespace collapsed to single spaces.
func Normalize(text string) string {
	composed := norm.NFC.String(text)
	folded := cases.Fold().String(composed)
	return strings.Join(strings.Fields(folded), " ")
}
