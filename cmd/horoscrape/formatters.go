package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pevans/horoscrape/horoscope"
	"github.com/pevans/horoscrape/pipeline"
)

// maxTextWidth caps the horoscope column in table output.
const maxTextWidth = 60

// printRecordsTable prints records as an aligned table. Widths are display
// widths so non-ASCII text lines up.
func printRecordsTable(w io.Writer, recs []horoscope.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No records to display.")
		return
	}

	rows := [][]string{{"SIGN", "NUMBER", "COLOR", "HOROSCOPE"}}
	for _, r := range recs {
		text := strings.Join(strings.Fields(r.Text), " ")
		rows = append(rows, []string{
			string(r.Sign),
			r.LuckyNumber,
			r.LuckyColor,
			runewidth.Truncate(text, maxTextWidth, "..."),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	fmt.Fprintf(w, "Records for %s\n\n", recs[0].Date)
	for _, row := range rows {
		var sb strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		fmt.Fprintln(w, sb.String())
	}
}

// printRecordsJSON prints records in JSON format
func printRecordsJSON(w io.Writer, recs []horoscope.Record) error {
	if recs == nil {
		recs = []horoscope.Record{}
	}

	output := map[string]any{
		"records": recs,
		"total":   len(recs),
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(w, string(data))
	return nil
}

// printRunSummary prints one line per failed sign and a total.
func printRunSummary(w io.Writer, result *pipeline.RunResult) {
	succeeded := result.Count(pipeline.StatusStored) + result.Count(pipeline.StatusExtracted)

	fmt.Fprintf(w, "Done: %d of %d signs for %s\n", succeeded, len(result.Outcomes), result.Date)
	for _, o := range result.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "  %-12s %s\n", o.Sign, o.Status)
		}
	}
}
