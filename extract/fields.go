package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pevans/horoscrape/horoscope"
)

var (
	luckyNumberPattern = regexp.MustCompile(`(?i)lucky\s+number\s*:\s*(\d+)`)
	luckyColorPattern  = regexp.MustCompile(`(?i)lucky\s+colou?r\s*:\s*([a-z]+)`)
	luckyNumberMarker  = regexp.MustCompile(`(?i)lucky\s+number`)
	luckyColorSegment  = regexp.MustCompile(`(?i)lucky\s+colou?r\s*:\s*[a-z]+[.,;]?`)
	bracketPattern     = regexp.MustCompile(`\s*\[[^\]]*\]`)
	loveFocusPattern   = regexp.MustCompile(`\s*Love Focus:`)
	blankRunPattern    = regexp.MustCompile(`[ \t]+`)
)

// Fields holds what ParseFields pulls out of a section chunk. Missing lucky
// values are horoscope.NotAvailable.
type Fields struct {
	Text        string
	LuckyNumber string
	LuckyColor  string
}

// ParseFields extracts the lucky number, lucky color and cleaned narrative
// from a validated chunk. It is a pure function of its inputs.
func ParseFields(chunk string, sign horoscope.Sign) Fields {
	return Fields{
		Text:        cleanNarrative(chunk, sign),
		LuckyNumber: firstGroup(luckyNumberPattern, chunk),
		LuckyColor:  firstGroup(luckyColorPattern, chunk),
	}
}

func firstGroup(pattern *regexp.Regexp, s string) string {
	match := pattern.FindStringSubmatch(s)
	if match == nil {
		return horoscope.NotAvailable
	}
	return match[1]
}

// cleanNarrative drops everything from the first "Lucky Number" onward and
// any lucky colour segment, then strips a leading repeat of the sign name and
// citation brackets, and starts "Love Focus:" on its own paragraph. The sign
// is stripped only when the chunk itself begins with it.
func cleanNarrative(chunk string, sign horoscope.Sign) string {
	text := chunk
	if loc := luckyNumberMarker.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	text = luckyColorSegment.ReplaceAllString(text, "")
	text = stripLeadingSign(strings.TrimSpace(text), sign)
	text = bracketPattern.ReplaceAllString(text, "")
	text = loveFocusPattern.ReplaceAllString(text, "\n\nLove Focus:")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(blankRunPattern.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// stripLeadingSign removes sign's name from the start of text when it stands
// as a word of its own, along with the separator that follows it.
func stripLeadingSign(text string, sign horoscope.Sign) string {
	rest, ok := strings.CutPrefix(text, string(sign))
	if !ok {
		return text
	}
	if next, _ := utf8.DecodeRuneInString(rest); next != utf8.RuneError && unicode.IsLetter(next) {
		return text
	}
	return strings.TrimLeft(rest, " :-–—,.")
}
