// Package extract locates each sign's section in a flattened horoscope article
// and parses the narrative and lucky fields out of it.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/pevans/horoscrape/horoscope"
)

// Document is a flattened page: ordered, trimmed, non-empty text lines.
type Document []string

const (
	// Headers are short: a bare sign name, or a name with a bracketed date
	// range. Body sentences that mention a sign run past maxHeaderLength.
	maxHeaderLength  = 100
	bareHeaderLength = 30
)

// FindHeaderCandidates returns the indices of every line that plausibly
// introduces sign's section, in document order. A line qualifies when it
// contains the sign label, is shorter than 100 runes, and either contains an
// opening parenthesis or is shorter than 30 runes.
func FindHeaderCandidates(doc Document, sign horoscope.Sign) []int {
	var candidates []int
	for i, line := range doc {
		if isHeaderCandidate(line, sign) {
			candidates = append(candidates, i)
		}
	}
	return candidates
}

func isHeaderCandidate(line string, sign horoscope.Sign) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, string(sign)) {
		return false
	}

	length := utf8.RuneCountInString(trimmed)
	if length >= maxHeaderLength {
		return false
	}
	return strings.Contains(trimmed, "(") || length < bareHeaderLength
}
