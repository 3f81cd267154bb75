// Package scraper fetches listing and article pages and flattens them into
// text lines.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

var (
	// ErrRetriesExhausted wraps the last failure once every attempt has
	// failed.
	ErrRetriesExhausted = errors.New("retries exhausted")
	ErrBodyTooLarge     = errors.New("response body too large")
)

// HTTPClient matches the Do method of *http.Client so tests and callers can
// supply their own transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned for a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s (%s)", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Fetcher performs polite, retrying GET requests. One Fetcher is scoped to one
// run; it is not safe for concurrent use.
type Fetcher struct {
	client  HTTPClient
	config  FetchConfig
	limiter *rate.Limiter
}

// NewFetcher creates a fetcher. A nil client gets an *http.Client with the
// configured timeout.
func NewFetcher(config FetchConfig, client HTTPClient) *Fetcher {
	config = config.WithDefaults()
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	limit := rate.Inf
	if config.PolitenessDelay > 0 {
		limit = rate.Every(config.PolitenessDelay)
	}

	return &Fetcher{
		client:  client,
		config:  config,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch returns the body of url. It first waits out the politeness delay since
// the previous fetch, then retries transport errors and retryable statuses
// with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for politeness delay: %w", err)
	}

	retries := max(f.config.MaxRetries, 0)

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, f.backoff(attempt)); err != nil {
				return nil, err
			}
		}

		body, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if !f.retryable(ctx, err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, retries+1, lastErr)
}

// FetchDocument fetches url and parses it as HTML.
func (f *Fetcher) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrBodyTooLarge, f.config.MaxBodySize, url)
	}
	return body, nil
}

// retryable reports whether err is worth another attempt. Statuses outside
// the retry set and caller cancellation are final.
func (f *Fetcher) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return slices.Contains(f.config.RetryStatuses, statusErr.StatusCode)
	}
	return true
}

// backoff returns BackoffBase doubled for each retry after the first.
func (f *Fetcher) backoff(attempt int) time.Duration {
	return f.config.BackoffBase << (attempt - 1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
