// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package translate

import (
	"unicode"
	"unicode/utf8"
)

// Keyword is a lexicon entry: the text to look for and the provider code it
// stands for. Code is unused by flag-style keyword groups.
type Keyword struct {
	Text string
	Code int
}

// Matcher finds lexicon keywords in normalized text using the Aho-Corasick
// automaton, in O(n + m + z) for text length n, total keyword length m and
// z matches.
//
// Keywords made of Hangul match anywhere, since Korean attaches particles
// directly to nouns ("액션영화", "봉준호의"). Other keywords match only on
// ASCII word boundaries so that "war" does not fire inside "award".
//
// A Matcher is immutable after NewMatcher and safe for concurrent use.
type Matcher struct {
	root     *acNode
	keywords []matcherKeyword
}

type matcherKeyword struct {
	Keyword
	boundary bool
}

type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	output   []int // indices into keywords ending at this node
}

// Match is one keyword occurrence. Start and End are byte offsets into the
// searched text.
type Match struct {
	Index   int
	Keyword string
	Code    int
	Start   int
	End     int
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

// NewMatcher builds the automaton for keywords. Keyword text is normalized
// the same way as translator input. Empty keywords are ignored; Index in a
// Match refers to the position in the keywords argument.
func NewMatcher(keywords []Keyword) *Matcher {
	m := &Matcher{root: newACNode(), keywords: make([]matcherKeyword, len(keywords))}

	for i, kw := range keywords {
		kw.Text = Normalize(kw.Text)
		m.keywords[i] = matcherKeyword{Keyword: kw, boundary: !containsHangul(kw.Text)}
		if kw.Text == "" {
			continue
		}
		node := m.root
		for _, ch := range kw.Text {
			next := node.children[ch]
			if next == nil {
				next = newACNode()
				node.children[ch] = next
			}
			node = next
		}
		node.output = append(node.output, i)
	}

	m.buildFailureLinks()
	return m
}

// buildFailureLinks runs a BFS from the root so that each node's failure
// link points at its longest proper suffix present in the trie.
func (m *Matcher) buildFailureLinks() {
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = m.root
				continue
			}
			child.failure = fail.children[ch]
			child.output = append(child.output, child.failure.output...)
		}
	}
}

// FindAll returns every keyword occurrence in text, in order of end
// position. text must already be normalized.
func (m *Matcher) FindAll(text string) []Match {
	var matches []Match
	m.scan(text, func(match Match) bool {
		matches = append(matches, match)
		return true
	})
	return matches
}

// Contains reports whether any keyword occurs in text.
func (m *Matcher) Contains(text string) bool {
	found := false
	m.scan(text, func(Match) bool {
		found = true
		return false
	})
	return found
}

// Matched returns, per keyword index, whether that keyword occurs in text.
func (m *Matcher) Matched(text string) []bool {
	hit := make([]bool, len(m.keywords))
	m.scan(text, func(match Match) bool {
		hit[match.Index] = true
		return true
	})
	return hit
}

// Len returns the number of keywords.
func (m *Matcher) Len() int { return len(m.keywords) }

func (m *Matcher) scan(text string, yield func(Match) bool) {
	node := m.root
	for i, ch := range text {
		for node != m.root && node.children[ch] == nil {
			node = node.failure
		}
		if next := node.children[ch]; next != nil {
			node = next
		}

		end := i + utf8.RuneLen(ch)
		for _, idx := range node.output {
			kw := m.keywords[idx]
			start := end - len(kw.Text)
			if kw.boundary && !atWordBoundary(text, start, end) {
				continue
			}
			if !yield(Match{Index: idx, Keyword: kw.Text, Code: kw.Code, Start: start, End: end}) {
				return
			}
		}
	}
}

// atWordBoundary reports whether text[start:end] is not glued to an ASCII
// letter or digit on either side. Hangul neighbors are allowed so that
// "sf영화" still matches "sf".
func atWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isASCIIWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isASCIIWordRune(r) {
			return false
		}
	}
	return true
}

func isASCIIWordRune(r rune) bool {
	return r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}

func containsHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
