// Package resolver picks the day's horoscope article from the links on a
// listing page.
package resolver

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ErrNoArticle means no link matched today at any tier.
var ErrNoArticle = errors.New("no article found for today")

// Tier is the strength of a link match, strongest first.
type Tier int

const (
	TierExact Tier = iota + 1
	TierRelaxed
	TierBroadened
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierRelaxed:
		return "relaxed"
	case TierBroadened:
		return "broadened"
	default:
		return "unknown"
	}
}

// Rules is the table of URL markers used to recognise the article.
type Rules struct {
	// TopicMarker must appear in tier 1 and tier 2 links.
	TopicMarker string `yaml:"topic_marker"`
	// GenericMarker must appear in tier 3 links.
	GenericMarker string `yaml:"generic_marker"`
	// Denylist disqualifies any link containing one of its entries. These
	// are sibling content families that share the date slug.
	Denylist []string `yaml:"denylist"`
}

// DefaultRules matches the Times of India daily horoscope article family.
var DefaultRules = Rules{
	TopicMarker:   "horoscope-today",
	GenericMarker: "horoscope",
	Denylist: []string{
		"numerology",
		"tarot",
		"love-horoscope",
		"career-and-money",
		"daily-horoscope",
	},
}

// Resolution is the chosen article link.
type Resolution struct {
	URL  string
	Tier Tier
}

// Resolver absolutizes links against a fixed site origin.
type Resolver struct {
	rules  Rules
	origin *url.URL
}

// New creates a resolver for links found on origin. Markers match
// case-insensitively; blank denylist entries are ignored.
func New(origin string, rules Rules) (*Resolver, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid origin: %q must be absolute", origin)
	}
	rules = rules.normalized()
	if rules.TopicMarker == "" || rules.GenericMarker == "" {
		return nil, errors.New("topic and generic markers are required")
	}

	return &Resolver{rules: rules, origin: base}, nil
}

// normalized returns a lowercased copy of r, since hrefs are compared in
// lower case.
func (r Rules) normalized() Rules {
	out := Rules{
		TopicMarker:   strings.ToLower(strings.TrimSpace(r.TopicMarker)),
		GenericMarker: strings.ToLower(strings.TrimSpace(r.GenericMarker)),
	}
	for _, entry := range r.Denylist {
		if entry = strings.ToLower(strings.TrimSpace(entry)); entry != "" {
			out.Denylist = append(out.Denylist, entry)
		}
	}
	return out
}

// DateSlugs returns the URL date forms of day, zero-padded day first:
// "december-06-2025" and "december-6-2025".
func DateSlugs(day time.Time) []string {
	month := strings.ToLower(day.Month().String())
	return []string{
		fmt.Sprintf("%s-%02d-%d", month, day.Day(), day.Year()),
		fmt.Sprintf("%s-%d-%d", month, day.Day(), day.Year()),
	}
}

// Resolve returns the best article link for today. A topical link carrying
// today's full date slug wins at once; otherwise the first topical link
// naming today's month and day in any year; otherwise the first link anywhere
// with the date slug and the generic marker. Denylisted links never match.
func (r *Resolver) Resolve(hrefs []string, today time.Time) (*Resolution, error) {
	slugs := DateSlugs(today)
	month := strings.ToLower(today.Month().String())
	days := []string{strconv.Itoa(today.Day()), fmt.Sprintf("%02d", today.Day())}

	var relaxed []string
	for _, href := range hrefs {
		lower := strings.ToLower(href)
		if !strings.Contains(lower, r.rules.TopicMarker) || r.denied(lower) {
			continue
		}
		if containsAny(lower, slugs) {
			if res, err := r.resolution(href, TierExact); err == nil {
				return res, nil
			}
			continue
		}
		if hasMonthDay(lower, month, days) {
			relaxed = append(relaxed, href)
		}
	}

	for _, href := range relaxed {
		if res, err := r.resolution(href, TierRelaxed); err == nil {
			return res, nil
		}
	}

	for _, href := range hrefs {
		lower := strings.ToLower(href)
		if r.denied(lower) || !strings.Contains(lower, r.rules.GenericMarker) {
			continue
		}
		if containsAny(lower, slugs) {
			if res, err := r.resolution(href, TierBroadened); err == nil {
				return res, nil
			}
		}
	}

	return nil, ErrNoArticle
}

func (r *Resolver) denied(lower string) bool {
	return containsAny(lower, r.rules.Denylist)
}

func (r *Resolver) resolution(href string, tier Tier) (*Resolution, error) {
	absolute, err := r.absolutize(href)
	if err != nil {
		return nil, err
	}
	return &Resolution{URL: absolute, Tier: tier}, nil
}

// absolutize resolves href against the site origin.
func (r *Resolver) absolutize(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return r.origin.ResolveReference(ref).String(), nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hasMonthDay reports whether the slug tokens of href include month and one
// of the day forms.
func hasMonthDay(href, month string, days []string) bool {
	tokens := strings.FieldsFunc(href, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var hasMonth, hasDay bool
	for _, token := range tokens {
		if token == month {
			hasMonth = true
		}
		for _, day := range days {
			if token == day {
				hasDay = true
			}
		}
	}
	return hasMonth && hasDay
}
