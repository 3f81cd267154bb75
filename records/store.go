// Package records persists horoscope records keyed by (sign, date).
package records

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pevans/horoscrape/horoscope"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUnknownBackend = errors.New("storage type must be sqlite, postgres, or file")
)

// Store is an insert-or-replace record store. Upsert on an existing
// (sign, date) replaces the stored content and keeps the original ID.
type Store interface {
	Upsert(ctx context.Context, record horoscope.Record) error
	Get(ctx context.Context, sign horoscope.Sign, date string) (*horoscope.Record, error)
	ListByDate(ctx context.Context, date string) ([]horoscope.Record, error)
	Close() error
}

// Config selects and locates a backend.
type Config struct {
	Type string `yaml:"type"` // "sqlite", "postgres" or "file"
	DSN  string `yaml:"dsn"`
}

// Open connects to the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLiteStore(cfg.DSN)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DSN)
	case "file":
		return NewFileStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Type)
	}
}

func validate(record horoscope.Record) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return nil
}

// sortBySign orders records by zodiac position.
func sortBySign(records []horoscope.Record) {
	slices.SortFunc(records, func(a, b horoscope.Record) int {
		return slices.Index(horoscope.AllSigns, a.Sign) - slices.Index(horoscope.AllSigns, b.Sign)
	})
}

// Helper functions for time formatting
func formatTime(t time.Time) string {
	// Strip monotonic clock for consistent storage and comparisons
	return t.UTC().Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
