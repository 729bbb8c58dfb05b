// Package redaction masks configured terms in a question before it is sent
// to the backend. Matching ignores case, punctuation and spacing so that
// "ACME-Corp" and "acme corp" are both caught by the term "acmecorp".
package redaction

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Redactor struct {
	matcher *goahocorasick.Machine
	mask    rune
}

type TextMapping struct {
	Normalized []rune
	OrigIdx    []int
}

// NewRedactor initializes the Aho-Corasick automaton with a normalized version
// of the provided terms. Terms that normalize to nothing are ignored.
func NewRedactor(terms []string, mask rune) (*Redactor, error) {
	patterns := make([][]rune, 0, len(terms))
	for _, term := range terms {
		if p := normalizeRunes([]rune(term)); len(p) > 0 {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return &Redactor{mask: mask}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Redactor{matcher: m, mask: mask}, nil
}

// Enabled reports whether at least one term is configured.
func (r *Redactor) Enabled() bool {
	return r != nil && r.matcher != nil
}

// Redact replaces every matched span of the original text with the mask
// rune, preserving length, and returns the original spans that were hit.
func (r *Redactor) Redact(original string) (string, []string) {
	if !r.Enabled() {
		return original, nil
	}
	mapping := normalize(original)
	if len(mapping.Normalized) == 0 {
		return original, nil
	}

	origRunes := []rune(original)
	spans := r.matcher.MultiPatternSearch(mapping.Normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	found := make([]string, 0, len(spans))
	masked := make([]rune, len(origRunes))
	copy(masked, origRunes)

	for _, span := range spans {
		normStart := span.Pos
		normEnd := normStart + len(span.Word)

		if normStart < 0 || normEnd > len(mapping.OrigIdx) {
			continue
		}

		origStart := mapping.OrigIdx[normStart]
		origEnd := mapping.OrigIdx[normEnd-1] + 1

		found = append(found, string(origRunes[origStart:origEnd]))
		for i := origStart; i < origEnd; i++ {
			masked[i] = r.mask
		}
	}

	return string(masked), found
}

// normalize lowercases the input, drops noise and tracks original rune positions.
func normalize(input string) TextMapping {
	origRunes := []rune(input)
	norm := make([]rune, 0, len(origRunes))
	origIdx := make([]int, 0, len(origRunes))

	for i, r := range origRunes {
		if isNoise(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return TextMapping{Normalized: norm, OrigIdx: origIdx}
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if isNoise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

// isNoise identifies characters that should be ignored during matching.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
