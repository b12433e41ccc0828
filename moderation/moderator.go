// Package moderation masks configured words in chat text before they
// reach the history buffer or any client.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator matches a fixed word list against chat text using an
// Aho-Corasick automaton and overwrites matched spans with the mask
// rune. Matching is case-insensitive. Safe for concurrent use once
// built.
type Moderator struct {
	matcher  *goahocorasick.Machine
	maskRune rune
}

// NewModerator builds the automaton from the word list. Callers should
// skip constructing a Moderator entirely when masking is disabled.
func NewModerator(words []string, maskRune rune) (*Moderator, error) {
	patterns := make([][]rune, len(words))
	for i, w := range words {
		patterns[i] = foldRunes([]rune(w))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, maskRune: maskRune}, nil
}

// Mask returns text with every occurrence of a listed word overwritten
// by the mask rune. Unmatched text comes back unchanged.
func (m *Moderator) Mask(text string) string {
	original := []rune(text)
	if len(original) == 0 {
		return text
	}

	spans := m.matcher.MultiPatternSearch(foldRunes(original), false)
	if len(spans) == 0 {
		return text
	}

	for _, span := range spans {
		end := span.Pos + len(span.Word)
		if span.Pos < 0 || end > len(original) {
			continue
		}
		for i := span.Pos; i < end; i++ {
			original[i] = m.maskRune
		}
	}
	return string(original)
}

// foldRunes lowercases the input rune by rune; the folded text keeps
// the positions of the original, so match spans map back directly.
func foldRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
	}
	return out
}
