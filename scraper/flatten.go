package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonContent elements never carry article text.
const nonContent = "script, style, noscript, template, iframe, svg"

// Flatten reduces doc to its text as ordered, trimmed, non-empty lines. Each
// text node contributes one line per embedded newline, in document order.
// Non-content elements are removed from doc.
func Flatten(doc *goquery.Document) []string {
	doc.Find(nonContent).Remove()

	var lines []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			if goquery.NodeName(child) != "#text" {
				walk(child)
				return
			}
			for _, line := range strings.Split(child.Text(), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
		})
	}
	walk(doc.Selection)

	return lines
}

// FlattenHTML parses r as HTML and flattens it.
func FlattenHTML(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return Flatten(doc), nil
}
