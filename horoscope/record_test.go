package horoscope

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRecord_Defaults verifies N/A defaults for missing fields
func TestNewRecord_Defaults(t *testing.T) {
	day := time.Date(2025, 12, 6, 9, 0, 0, 0, time.UTC)

	record := NewRecord(Leo, day, "A bright day.", "", "", "https://example.com/a")

	assert.NotEqual(t, uuid.Nil, record.ID, "should generate UUID")
	assert.Equal(t, Leo, record.Sign)
	assert.Equal(t, "2025-12-06", record.Date)
	assert.Equal(t, NotAvailable, record.LuckyNumber)
	assert.Equal(t, NotAvailable, record.LuckyColor)
	assert.Equal(t, NotAvailable, record.Compatibility)
	assert.Equal(t, "https://example.com/a", record.SourceURL)
}

// TestNewRecord_LuckyFields verifies extracted fields are kept
func TestNewRecord_LuckyFields(t *testing.T) {
	day := time.Date(2025, 12, 6, 0, 0, 0, 0, time.UTC)

	record := NewRecord(Pisces, day, "Text", "7", "Blue", "")

	assert.Equal(t, "7", record.LuckyNumber)
	assert.Equal(t, "Blue", record.LuckyColor)
	assert.Equal(t, NotAvailable, record.Compatibility, "compatibility is never published")
}

func TestRecord_Validate(t *testing.T) {
	day := time.Date(2025, 12, 6, 0, 0, 0, 0, time.UTC)
	valid := NewRecord(Aries, day, "Text", "", "", "")
	require.NoError(t, valid.Validate())

	noText := valid
	noText.Text = "   "
	assert.ErrorIs(t, noText.Validate(), ErrEmptyText)

	badSign := valid
	badSign.Sign = "Ophiuchus"
	assert.ErrorIs(t, badSign.Validate(), ErrInvalidSign)

	badDate := valid
	badDate.Date = "12/06/2025"
	assert.ErrorIs(t, badDate.Validate(), ErrInvalidDate)
}

func TestParseSign(t *testing.T) {
	sign, err := ParseSign("  sagittarius ")
	require.NoError(t, err)
	assert.Equal(t, Sagittarius, sign)

	_, err = ParseSign("Ophiuchus")
	assert.Error(t, err)
}

// TestAllSigns verifies the twelve signs are distinct and valid
func TestAllSigns(t *testing.T) {
	require.Len(t, AllSigns, 12)

	seen := map[Sign]bool{}
	for _, sign := range AllSigns {
		assert.True(t, sign.Valid())
		assert.False(t, seen[sign], "duplicate sign %s", sign)
		seen[sign] = true
	}
	assert.False(t, Sign("aries").Valid(), "labels are case-sensitive")
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2025-12-06")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-06", FormatDate(day))

	_, err = ParseDate("December 6")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
