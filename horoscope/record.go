package horoscope

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotAvailable is stored for fields the source did not publish.
const NotAvailable = "N/A"

// DateLayout is the ISO date format used for Record.Date.
const DateLayout = "2006-01-02"

var (
	ErrEmptyText   = errors.New("horoscope text is empty")
	ErrInvalidSign = errors.New("invalid sign")
	ErrInvalidDate = errors.New("date must be formatted YYYY-MM-DD")
)

// Record is one sign's horoscope for one day. Records are unique per
// (Sign, Date); storing a record for an existing key replaces its content.
type Record struct {
	ID            uuid.UUID `json:"id"`
	Sign          Sign      `json:"sign"`
	Text          string    `json:"horoscope_text"`
	Date          string    `json:"date"`
	LuckyNumber   string    `json:"lucky_number"`
	LuckyColor    string    `json:"lucky_color"`
	Compatibility string    `json:"compatibility"`
	SourceURL     string    `json:"source_url,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewRecord builds a record for sign on day. Empty lucky fields become
// NotAvailable and Compatibility is always NotAvailable: the source does not
// publish it.
func NewRecord(sign Sign, day time.Time, text, luckyNumber, luckyColor, sourceURL string) Record {
	if luckyNumber == "" {
		luckyNumber = NotAvailable
	}
	if luckyColor == "" {
		luckyColor = NotAvailable
	}

	return Record{
		ID:            uuid.New(),
		Sign:          sign,
		Text:          text,
		Date:          FormatDate(day),
		LuckyNumber:   luckyNumber,
		LuckyColor:    luckyColor,
		Compatibility: NotAvailable,
		SourceURL:     sourceURL,
		UpdatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

// Validate rejects records that must never reach a store.
func (r Record) Validate() error {
	if !r.Sign.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSign, r.Sign)
	}
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, r.Date)
	}
	return nil
}

// FormatDate renders day as an ISO date in its own location.
func FormatDate(day time.Time) string {
	return day.Format(DateLayout)
}

// ParseDate parses an ISO date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return day, nil
}
