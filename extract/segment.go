package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/pevans/horoscrape/horoscope"
)

const (
	// A line naming another sign that is shorter than this is taken as the
	// next section's header.
	nextHeaderLength = 50

	// authorMarker opens the byline block that follows the last section.
	authorMarker = "By:"

	// DefaultMinChunkLength is the length a chunk must exceed to count as a
	// real section rather than a table-of-contents entry.
	DefaultMinChunkLength = 50
)

// AcceptPolicy decides whether the chunk read after a header candidate is the
// sign's real section.
type AcceptPolicy func(chunk string) bool

// MinLength accepts chunks strictly longer than n runes.
func MinLength(n int) AcceptPolicy {
	return func(chunk string) bool {
		return utf8.RuneCountInString(chunk) > n
	}
}

// DefaultAcceptPolicy is MinLength(DefaultMinChunkLength).
var DefaultAcceptPolicy = MinLength(DefaultMinChunkLength)

// ExtractSegment returns the chunk following the first candidate that accept
// approves. signs is the full label set used to recognise the next section's
// header. The second result is false when every candidate was rejected.
func ExtractSegment(
	doc Document,
	sign horoscope.Sign,
	candidates []int,
	signs []horoscope.Sign,
	accept AcceptPolicy,
) (string, bool) {
	if accept == nil {
		accept = DefaultAcceptPolicy
	}

	for _, start := range candidates {
		chunk := readChunk(doc, start, sign, signs)
		if accept(chunk) {
			return chunk, true
		}
	}
	return "", false
}

// readChunk joins the non-blank lines after doc[start] up to, not including,
// the first terminator line.
func readChunk(doc Document, start int, sign horoscope.Sign, signs []horoscope.Sign) string {
	var lines []string
	for i := start + 1; i < len(doc); i++ {
		line := strings.TrimSpace(doc[i])
		if line == "" {
			continue
		}
		if isTerminator(line, sign, signs) {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}

// isTerminator reports whether line ends the current section. A short aside
// that names another sign also matches; that early stop is accepted.
func isTerminator(line string, sign horoscope.Sign, signs []horoscope.Sign) bool {
	if strings.Contains(line, authorMarker) {
		return true
	}
	if utf8.RuneCountInString(line) >= nextHeaderLength {
		return false
	}
	for _, other := range signs {
		if other != sign && strings.Contains(line, string(other)) {
			return true
		}
	}
	return false
}
