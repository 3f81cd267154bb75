package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pevans/horoscrape/horoscope"
)

const (
	defaultMaxOpenConns    = 4
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 5 * time.Minute
	defaultPingTimeout     = 5 * time.Second
)

// PostgresStore keeps records in a hosted PostgreSQL database.
type PostgresStore struct {
	db *sqlx.DB
}

type postgresRow struct {
	ID            string         `db:"record_id"`
	Sign          string         `db:"sign"`
	Date          string         `db:"date"`
	Text          string         `db:"horoscope_text"`
	LuckyNumber   string         `db:"lucky_number"`
	LuckyColor    string         `db:"lucky_color"`
	Compatibility string         `db:"compatibility"`
	SourceURL     sql.NullString `db:"source_url"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// NewPostgresStore connects to dsn, verifies the connection and ensures the
// horoscopes table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS horoscopes (
		record_id UUID PRIMARY KEY,
		sign TEXT NOT NULL,
		date DATE NOT NULL,
		horoscope_text TEXT NOT NULL,
		lucky_number TEXT NOT NULL,
		lucky_color TEXT NOT NULL,
		compatibility TEXT NOT NULL,
		source_url TEXT,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (sign, date)
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Upsert inserts record or replaces the content stored for its sign and date.
func (s *PostgresStore) Upsert(ctx context.Context, record horoscope.Record) error {
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
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (sign, date) DO UPDATE SET
			horoscope_text = EXCLUDED.horoscope_text,
			lucky_number = EXCLUDED.lucky_number,
			lucky_color = EXCLUDED.lucky_color,
			compatibility = EXCLUDED.compatibility,
			source_url = EXCLUDED.source_url,
			updated_at = EXCLUDED.updated_at
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
		record.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

const postgresSelect = `
	SELECT record_id, sign, to_char(date, 'YYYY-MM-DD') AS date, horoscope_text,
	       lucky_number, lucky_color, compatibility, source_url, updated_at
	FROM horoscopes
`

// Get retrieves the record for sign on date.
func (s *PostgresStore) Get(ctx context.Context, sign horoscope.Sign, date string) (*horoscope.Record, error) {
	var row postgresRow
	err := s.db.GetContext(ctx, &row, postgresSelect+" WHERE sign = $1 AND date = $2", string(sign), date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	return row.record()
}

// ListByDate returns every record stored for date in zodiac order.
func (s *PostgresStore) ListByDate(ctx context.Context, date string) ([]horoscope.Record, error) {
	var rows []postgresRow
	if err := s.db.SelectContext(ctx, &rows, postgresSelect+" WHERE date = $1", date); err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	records := make([]horoscope.Record, 0, len(rows))
	for _, row := range rows {
		record, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	sortBySign(records)
	return records, nil
}

func (r postgresRow) record() (*horoscope.Record, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record ID: %w", err)
	}

	return &horoscope.Record{
		ID:            id,
		Sign:          horoscope.Sign(r.Sign),
		Text:          r.Text,
		Date:          r.Date,
		LuckyNumber:   r.LuckyNumber,
		LuckyColor:    r.LuckyColor,
		Compatibility: r.Compatibility,
		SourceURL:     r.SourceURL.String,
		UpdatedAt:     r.UpdatedAt.UTC(),
	}, nil
}
