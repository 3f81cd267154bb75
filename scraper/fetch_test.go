package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: a fetcher with fast retries and no politeness delay
func createTestFetcher() *Fetcher {
	return NewFetcher(FetchConfig{
		MaxRetries:      2,
		BackoffBase:     time.Millisecond,
		PolitenessDelay: -1,
		Timeout:         5 * time.Second,
	}, nil)
}

func TestFetch_Success(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	body, err := createTestFetcher().Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html><body>ok</body></html>", string(body))
	assert.Equal(t, DefaultUserAgent, userAgent)
}

// TestFetch_RetriesTransientStatus verifies retryable statuses are retried
// until success
func TestFetch_RetriesTransientStatus(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	body, err := createTestFetcher().Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "recovered", string(body))
	assert.Equal(t, int32(3), attempts.Load())
}

// TestFetch_PermanentStatus verifies non-retryable statuses fail at once
func TestFetch_PermanentStatus(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := createTestFetcher().Fetch(context.Background(), server.URL)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, int32(1), attempts.Load())
}

// TestFetch_RetriesExhausted verifies the retry cap
func TestFetch_RetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := createTestFetcher().Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, int32(3), attempts.Load(), "one attempt plus two retries")
}

// TestFetch_TransportErrorRetried verifies client errors count as transient
func TestFetch_TransportErrorRetried(t *testing.T) {
	client := &failingClient{}
	fetcher := NewFetcher(FetchConfig{MaxRetries: 1, BackoffBase: time.Millisecond, PolitenessDelay: -1}, client)

	_, err := fetcher.Fetch(context.Background(), "http://example.invalid/")

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 2, client.calls)
}

// TestFetch_ContextCancelled verifies cancellation stops retries
func TestFetch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := createTestFetcher().Fetch(ctx, "http://example.invalid/")

	assert.ErrorIs(t, err, context.Canceled)
}

// TestFetch_PolitenessDelay verifies consecutive fetches are spaced out
func TestFetch_PolitenessDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := NewFetcher(FetchConfig{PolitenessDelay: 80 * time.Millisecond}, nil)

	start := time.Now()
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	_, err = fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestFetchConfig_WithDefaults(t *testing.T) {
	config := FetchConfig{}.WithDefaults()

	assert.Equal(t, DefaultUserAgent, config.UserAgent)
	assert.Equal(t, DefaultTimeout, config.Timeout)
	assert.Equal(t, DefaultMaxRetries, config.MaxRetries)
	assert.Equal(t, DefaultBackoffBase, config.BackoffBase)
	assert.Equal(t, DefaultPolitenessDelay, config.PolitenessDelay)
	assert.Equal(t, DefaultRetryStatuses, config.RetryStatuses)

	assert.Equal(t, int64(DefaultMaxBodySize), config.MaxBodySize)

	disabled := FetchConfig{PolitenessDelay: -1, MaxRetries: -1}.WithDefaults()
	assert.Negative(t, disabled.PolitenessDelay, "negative delay stays disabled")
	assert.Negative(t, disabled.MaxRetries, "negative retries stay disabled")
}

// TestFetch_RetriesDisabled verifies a negative MaxRetries makes one attempt
func TestFetch_RetriesDisabled(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcher(FetchConfig{MaxRetries: -1, BackoffBase: time.Millisecond, PolitenessDelay: -1}, nil)
	_, err := fetcher.Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Contains(t, err.Error(), "after 1 attempts")
	assert.Equal(t, int32(1), attempts.Load())
}

// TestFetch_BodyTooLarge verifies oversized responses are rejected without a
// retry
func TestFetch_BodyTooLarge(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	fetcher := NewFetcher(FetchConfig{
		MaxRetries:      2,
		BackoffBase:     time.Millisecond,
		PolitenessDelay: -1,
		MaxBodySize:     32,
	}, nil)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
	assert.Equal(t, int32(1), attempts.Load())

	fetcher = NewFetcher(FetchConfig{PolitenessDelay: -1, MaxBodySize: 64}, nil)
	body, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, body, 64, "a body exactly at the cap is accepted")
}

func TestBackoff(t *testing.T) {
	fetcher := NewFetcher(FetchConfig{BackoffBase: 100 * time.Millisecond, PolitenessDelay: -1}, nil)

	assert.Equal(t, 100*time.Millisecond, fetcher.backoff(1))
	assert.Equal(t, 200*time.Millisecond, fetcher.backoff(2))
	assert.Equal(t, 400*time.Millisecond, fetcher.backoff(3))
}

type failingClient struct {
	calls int
}

func (c *failingClient) Do(*http.Request) (*http.Response, error) {
	c.calls++
	return nil, errors.New("connection refused")
}
