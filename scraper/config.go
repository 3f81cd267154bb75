package scraper

import (
	"net/http"
	"time"
)

// Default fetch settings.
const (
	DefaultUserAgent       = "horoscrape/1.0 (daily horoscope archiver)"
	DefaultTimeout         = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultBackoffBase     = 1 * time.Second
	DefaultPolitenessDelay = 2 * time.Second
	DefaultMaxBodySize     = 10 << 20
)

// DefaultRetryStatuses are the transient HTTP statuses worth retrying.
var DefaultRetryStatuses = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// SiteConfig describes where the day's article is listed.
type SiteConfig struct {
	// Origin is used to absolutize relative article links.
	Origin string `yaml:"origin"`
	// ListingURL is the HTML page whose anchors are searched for the article.
	ListingURL string `yaml:"listing_url"`
	// ListingFeedURL is an optional RSS/Atom feed whose item links are
	// searched along with the listing page anchors.
	ListingFeedURL string `yaml:"listing_feed_url,omitempty"`
}

// DefaultSiteConfig returns the Times of India astrology listing.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Origin:     "https://timesofindia.indiatimes.com",
		ListingURL: "https://timesofindia.indiatimes.com/astrology/horoscope",
	}
}

// FetchConfig controls HTTP behaviour for one run.
type FetchConfig struct {
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries after the first attempt. Zero
	// means DefaultMaxRetries; negative disables retries.
	MaxRetries  int           `yaml:"max_retries"`
	BackoffBase time.Duration `yaml:"backoff_base"`

	// PolitenessDelay is the minimum gap between fetches. Negative disables
	// it.
	PolitenessDelay time.Duration `yaml:"politeness_delay"`
	RetryStatuses   []int         `yaml:"retry_statuses"`

	// MaxBodySize caps the bytes read from one response.
	MaxBodySize int64 `yaml:"max_body_size"`
}

// WithDefaults returns a copy of the config with defaults applied to
// zero-value fields.
func (c FetchConfig) WithDefaults() FetchConfig {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = DefaultBackoffBase
	}
	if c.PolitenessDelay == 0 {
		c.PolitenessDelay = DefaultPolitenessDelay
	}
	if len(c.RetryStatuses) == 0 {
		c.RetryStatuses = DefaultRetryStatuses
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}
	return c
}
