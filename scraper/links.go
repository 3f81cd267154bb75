package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Links returns the distinct anchor hrefs of doc in document order.
func Links(doc *goquery.Document) []string {
	seen := map[string]bool{}
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})

	return links
}

// FeedLinks fetches an RSS or Atom feed and returns its item links in feed
// order. gofeed detects the format.
func (f *Fetcher) FeedLinks(ctx context.Context, feedURL string) ([]string, error) {
	body, err := f.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var links []string
	for _, item := range feed.Items {
		if item.Link != "" {
			links = append(links, item.Link)
			continue
		}
		if len(item.Links) > 0 {
			links = append(links, item.Links[0])
		}
	}
	return links, nil
}
