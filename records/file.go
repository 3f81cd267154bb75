package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pevans/horoscrape/horoscope"
)

// FileStore keeps each record as <dir>/<date>/<sign>.json. Rewriting the file
// for an existing sign and date is the upsert.
type FileStore struct {
	storageDir string
}

// NewFileStore creates a file store rooted at storageDir.
func NewFileStore(storageDir string) (*FileStore, error) {
	// 0700: owner-only access
	if err := os.MkdirAll(storageDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStore{storageDir: storageDir}, nil
}

// Close is a no-op.
func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) path(sign horoscope.Sign, date string) string {
	return filepath.Join(fs.storageDir, date, string(sign)+".json")
}

// Upsert writes record, keeping the ID of any record already stored for the
// same sign and date.
func (fs *FileStore) Upsert(ctx context.Context, record horoscope.Record) error {
	if err := validate(record); err != nil {
		return err
	}

	existing, err := fs.Get(ctx, record.Sign, record.Date)
	switch {
	case err == nil:
		record.ID = existing.ID
	case errors.Is(err, ErrRecordNotFound):
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
	default:
		return err
	}

	if err := os.MkdirAll(filepath.Join(fs.storageDir, record.Date), 0o700); err != nil {
		return fmt.Errorf("failed to create date directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// Write to a temporary file and rename so readers never see a partial
	// record
	target := fs.path(record.Sign, record.Date)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// Get retrieves the record for sign on date.
func (fs *FileStore) Get(_ context.Context, sign horoscope.Sign, date string) (*horoscope.Record, error) {
	data, err := os.ReadFile(fs.path(sign, date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var record horoscope.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return &record, nil
}

// ListByDate returns every record stored for date in zodiac order.
func (fs *FileStore) ListByDate(ctx context.Context, date string) ([]horoscope.Record, error) {
	var records []horoscope.Record
	for _, sign := range horoscope.AllSigns {
		record, err := fs.Get(ctx, sign, date)
		if errors.Is(err, ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}
