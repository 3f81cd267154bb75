package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pevans/horoscrape/horoscope"
	"github.com/pevans/horoscrape/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: keeps config loading away from the developer's own files.
func isolateEnv(t *testing.T) string {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("ENV_FILE", filepath.Join(tmpDir, "missing.env"))
	t.Setenv("HOROSCRAPE_CONFIG", "")
	t.Setenv("HOROSCRAPE_STORAGE_TYPE", "sqlite")
	t.Setenv("HOROSCRAPE_DATABASE_URL", filepath.Join(tmpDir, "horoscopes.db"))
	t.Setenv("HOROSCRAPE_LOG_LEVEL", "error")
	return tmpDir
}

// Test helper: writes a saved article page with every sign.
func writeArticle(t *testing.T, dir string) string {
	var b strings.Builder
	b.WriteString("<html><body><h1>Horoscope Today</h1>")
	for i, sign := range horoscope.AllSigns {
		fmt.Fprintf(&b, "<h2>%s (dates)</h2>", sign)
		b.WriteString("<p>Plans come together when you listen more than you speak today.</p>")
		fmt.Fprintf(&b, "<p>Lucky Number: %d</p><p>Lucky Color: Blue</p>", i+1)
	}
	b.WriteString("<div>By: Astro Desk</div></body></html>")

	path := filepath.Join(dir, "article.html")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

// Test helper: runs the root command and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type recordsOutput struct {
	Records []horoscope.Record `json:"records"`
	Total   int                `json:"total"`
}

func TestExtractCommand_JSON(t *testing.T) {
	dir := isolateEnv(t)
	article := writeArticle(t, dir)

	out, err := execute(t, "extract", article, "--date", "2025-12-06", "--json")
	require.NoError(t, err)

	var got recordsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 12, got.Total)
	assert.Equal(t, horoscope.Aries, got.Records[0].Sign)
	assert.Equal(t, "2025-12-06", got.Records[0].Date)
	assert.Equal(t, "1", got.Records[0].LuckyNumber)
	assert.Equal(t, "Blue", got.Records[0].LuckyColor)
	assert.Equal(t, "Plans come together when you listen more than you speak today.", got.Records[0].Text)

	_, err = os.Stat(filepath.Join(dir, "horoscopes.db"))
	assert.True(t, os.IsNotExist(err), "nothing is stored without --store")
}

func TestExtractThenList(t *testing.T) {
	dir := isolateEnv(t)
	article := writeArticle(t, dir)

	out, err := execute(t, "extract", article, "--date", "2025-12-06", "--store")
	require.NoError(t, err)
	assert.Contains(t, out, "Done: 12 of 12 signs for 2025-12-06")

	out, err = execute(t, "list", "--date", "2025-12-06", "--json")
	require.NoError(t, err)

	var got recordsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 12, got.Total)
	assert.Equal(t, horoscope.Pisces, got.Records[11].Sign)
	assert.Equal(t, "12", got.Records[11].LuckyNumber)

	out, err = execute(t, "list", "--date", "2025-12-07")
	require.NoError(t, err)
	assert.Contains(t, out, "No records to display.")
}

func TestExtractCommand_MissingFile(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "extract", "/does/not/exist.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open article")
}

func TestListCommand_InvalidDate(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "list", "--date", "06/12/2025")
	assert.ErrorIs(t, err, horoscope.ErrInvalidDate)
}

func TestResolveDay(t *testing.T) {
	day, err := resolveDay("2025-12-06")
	require.NoError(t, err)
	assert.Equal(t, time.December, day.Month())
	assert.Equal(t, 6, day.Day())

	today, err := resolveDay("")
	require.NoError(t, err)
	assert.Equal(t, horoscope.FormatDate(time.Now()), horoscope.FormatDate(today))
}

func TestPrintRecordsTable(t *testing.T) {
	day := time.Date(2025, 12, 6, 0, 0, 0, 0, time.Local)
	recs := []horoscope.Record{
		horoscope.NewRecord(horoscope.Aries, day, "Short text.", "9", "Red", ""),
		horoscope.NewRecord(horoscope.Sagittarius, day, strings.Repeat("long narrative ", 10), "", "", ""),
	}

	out := &bytes.Buffer{}
	printRecordsTable(out, recs)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Records for 2025-12-06", lines[0])

	header, aries, sagittarius := lines[2], lines[3], lines[4]
	assert.True(t, strings.HasPrefix(header, "SIGN         NUMBER  COLOR  HOROSCOPE"))
	assert.Equal(t, strings.Index(header, "HOROSCOPE"), strings.Index(aries, "Short text."))
	assert.Contains(t, sagittarius, "N/A")
	assert.True(t, strings.HasSuffix(sagittarius, "..."))
}

func TestPrintRecordsTable_Empty(t *testing.T) {
	out := &bytes.Buffer{}
	printRecordsTable(out, nil)
	assert.Equal(t, "No records to display.\n", out.String())
}

func TestPrintRunSummary(t *testing.T) {
	result := &pipeline.RunResult{
		Date: "2025-12-06",
		Outcomes: []pipeline.SignOutcome{
			{Sign: horoscope.Aries, Status: pipeline.StatusStored},
			{Sign: horoscope.Taurus, Status: pipeline.StatusNotFound, Err: assert.AnError},
		},
	}

	out := &bytes.Buffer{}
	printRunSummary(out, result)

	assert.Contains(t, out.String(), "Done: 1 of 2 signs for 2025-12-06")
	assert.Contains(t, out.String(), "Taurus")
	assert.Contains(t, out.String(), "not_found")
}

func TestGetEnv(t *testing.T) {
	t.Setenv("HOROSCRAPE_TEST_VALUE", "set")
	assert.Equal(t, "set", getEnv("HOROSCRAPE_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", getEnv("HOROSCRAPE_TEST_UNSET_VALUE", "fallback"))
}
