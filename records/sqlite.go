package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/horoscrape/horoscope"
)

// SQLiteStore manages horoscope records using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new record store with the given database path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the horoscopes table if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS horoscopes (
		record_id TEXT PRIMARY KEY,
		sign TEXT NOT NULL,
		date TEXT NOT NULL,
		horoscope_text TEXT NOT NULL,
		lucky_number TEXT NOT NULL,
		lucky_color TEXT NOT NULL,
		compatibility TEXT NOT NULL,
		source_url TEXT,
		updated_at TEXT NOT NULL,
		UNIQUE (sign, date)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Upsert inserts record or replaces the content stored for its sign and date.
func (s *SQLiteStore) Upsert(ctx context.Context, record horoscope.Record) error {
	if err := validate(record); err != nil {
		return err
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	query := `
		INSERT INTO horoscopes (
			record_id, sign, date, horoscope_text, lucky_number,
			lucky_color, compatibility, source_url, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (sign, date) DO UPDATE SET
			horoscope_text = excluded.horoscope_text,
			lucky_number = excluded.lucky_number,
			lucky_color = excluded.lucky_color,
			compatibility = excluded.compatibility,
			source_url = excluded.source_url,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID.String(),
		string(record.Sign),
		record.Date,
		record.Text,
		record.LuckyNumber,
		record.LuckyColor,
		record.Compatibility,
		nullString(record.SourceURL),
		formatTime(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT record_id, sign, date, horoscope_text, lucky_number,
	       lucky_color, compatibility, source_url, updated_at
	FROM horoscopes
`

// Get retrieves the record for sign on date.
func (s *SQLiteStore) Get(ctx context.Context, sign horoscope.Sign, date string) (*horoscope.Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE sign = ? AND date = ?", string(sign), date)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return record, nil
}

// ListByDate returns every record stored for date in zodiac order.
func (s *SQLiteStore) ListByDate(ctx context.Context, date string) ([]horoscope.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE date = ?", date)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []horoscope.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	sortBySign(records)
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord is shared by Get and ListByDate.
func scanRecord(row scanner) (*horoscope.Record, error) {
	var idStr, sign, updatedAtStr string
	var sourceURL sql.NullString
	record := &horoscope.Record{}

	err := row.Scan(
		&idStr, &sign, &record.Date, &record.Text, &record.LuckyNumber,
		&record.LuckyColor, &record.Compatibility, &sourceURL, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record ID: %w", err)
	}
	record.ID = id
	record.Sign = horoscope.Sign(sign)
	record.SourceURL = sourceURL.String
	record.UpdatedAt = parseTime(updatedAtStr)

	return record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
