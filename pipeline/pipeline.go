// Package pipeline runs one daily scrape: find the article, flatten it,
// extract every sign and store the records.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pevans/horoscrape/extract"
	"github.com/pevans/horoscrape/horoscope"
	"github.com/pevans/horoscrape/records"
	"github.com/pevans/horoscrape/resolver"
	"github.com/pevans/horoscrape/scraper"
	"go.uber.org/zap"
)

// Status is what happened to one sign during a run.
type Status string

const (
	StatusStored        Status = "stored"
	StatusExtracted     Status = "extracted" // no store configured
	StatusNotFound      Status = "not_found"
	StatusNoSegment     Status = "no_segment"
	StatusExtractFailed Status = "extract_failed"
	StatusStoreFailed   Status = "store_failed"
)

// SignOutcome records the result for one sign. Record is set only when
// extraction succeeded.
type SignOutcome struct {
	Sign   horoscope.Sign
	Status Status
	Record *horoscope.Record
	Err    error
}

// RunResult summarizes a run.
type RunResult struct {
	Date       string
	Resolution *resolver.Resolution
	Outcomes   []SignOutcome
}

// Count returns how many outcomes have status.
func (r *RunResult) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Records returns the successfully extracted records in zodiac order.
func (r *RunResult) Records() []horoscope.Record {
	var out []horoscope.Record
	for _, o := range r.Outcomes {
		if o.Record != nil {
			out = append(out, *o.Record)
		}
	}
	return out
}

// Options configures a Runner. Fetcher and Resolver are required for Run and
// Resolve; everything else has a usable zero value.
type Options struct {
	Fetcher   *scraper.Fetcher
	Resolver  *resolver.Resolver
	Site      scraper.SiteConfig
	Extractor *extract.Extractor
	// Store may be nil, in which case records are extracted but not saved.
	Store  records.Store
	Logger *zap.Logger
	// Out receives human-readable progress lines.
	Out io.Writer
	// Now supplies the run date.
	Now func() time.Time
}

// Runner orchestrates a single scrape. It keeps no state between runs.
type Runner struct {
	fetcher   *scraper.Fetcher
	resolver  *resolver.Resolver
	site      scraper.SiteConfig
	extractor *extract.Extractor
	store     records.Store
	logger    *zap.Logger
	out       io.Writer
	now       func() time.Time
}

// NewRunner creates a runner from opts.
func NewRunner(opts Options) *Runner {
	if opts.Extractor == nil {
		opts.Extractor = extract.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		fetcher:   opts.Fetcher,
		resolver:  opts.Resolver,
		site:      opts.Site,
		extractor: opts.Extractor,
		store:     opts.Store,
		logger:    opts.Logger,
		out:       opts.Out,
		now:       opts.Now,
	}
}

// Resolve fetches the listing page (and the listing feed, if configured) and
// picks today's article.
func (r *Runner) Resolve(ctx context.Context) (*resolver.Resolution, error) {
	listing, err := r.fetcher.FetchDocument(ctx, r.site.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	hrefs := scraper.Links(listing)
	r.logger.Debug("Collected listing links",
		zap.String("url", r.site.ListingURL),
		zap.Int("count", len(hrefs)),
	)

	if r.site.ListingFeedURL != "" {
		feedLinks, err := r.fetcher.FeedLinks(ctx, r.site.ListingFeedURL)
		if err != nil {
			// The feed only supplements the listing page
			r.logger.Warn("Listing feed unavailable",
				zap.String("url", r.site.ListingFeedURL),
				zap.Error(err),
			)
		} else {
			hrefs = append(hrefs, feedLinks...)
		}
	}

	resolution, err := r.resolver.Resolve(hrefs, r.now())
	if err != nil {
		return nil, err
	}

	r.logger.Info("Resolved article",
		zap.String("url", resolution.URL),
		zap.Stringer("tier", resolution.Tier),
	)
	return resolution, nil
}

// Run performs a full scrape for today. It fails only when the article cannot
// be found or fetched; per-sign failures are reported in the result.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	day := r.now()
	fmt.Fprintf(r.out, "Fetching daily horoscopes for %s...\n\n", horoscope.FormatDate(day))

	resolution, err := r.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve article: %w", err)
	}
	fmt.Fprintf(r.out, "Article: %s (%s match)\n\n", resolution.URL, resolution.Tier)

	article, err := r.fetcher.FetchDocument(ctx, resolution.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	result, err := r.ProcessDocument(ctx, scraper.Flatten(article), day, resolution.URL)
	if result != nil {
		result.Resolution = resolution
	}
	return result, err
}

// ProcessDocument extracts and stores all twelve signs from an already
// flattened document. Each sign is independent: a failure is recorded in its
// outcome and the loop moves on. Only context cancellation stops it early.
func (r *Runner) ProcessDocument(ctx context.Context, doc extract.Document, day time.Time, sourceURL string) (*RunResult, error) {
	result := &RunResult{Date: horoscope.FormatDate(day)}

	for _, sign := range horoscope.AllSigns {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome := r.processSign(ctx, doc, sign, day, sourceURL)
		result.Outcomes = append(result.Outcomes, outcome)
		r.report(outcome)
	}

	r.logger.Info("Run complete",
		zap.String("date", result.Date),
		zap.Int("stored", result.Count(StatusStored)),
		zap.Int("extracted", result.Count(StatusExtracted)),
		zap.Int("failed", len(result.Outcomes)-result.Count(StatusStored)-result.Count(StatusExtracted)),
	)
	return result, nil
}

func (r *Runner) processSign(ctx context.Context, doc extract.Document, sign horoscope.Sign, day time.Time, sourceURL string) (outcome SignOutcome) {
	outcome.Sign = sign

	defer func() {
		if p := recover(); p != nil {
			outcome.Status = StatusExtractFailed
			outcome.Record = nil
			outcome.Err = fmt.Errorf("panic while extracting %s: %v", sign, p)
		}
	}()

	fields, err := r.extractor.Extract(doc, sign)
	switch {
	case errors.Is(err, extract.ErrSignNotFound):
		outcome.Status, outcome.Err = StatusNotFound, err
		return outcome
	case errors.Is(err, extract.ErrNoValidSegment):
		outcome.Status, outcome.Err = StatusNoSegment, err
		return outcome
	case err != nil:
		outcome.Status, outcome.Err = StatusExtractFailed, err
		return outcome
	}

	record := horoscope.NewRecord(sign, day, fields.Text, fields.LuckyNumber, fields.LuckyColor, sourceURL)
	if err := record.Validate(); err != nil {
		outcome.Status, outcome.Err = StatusExtractFailed, err
		return outcome
	}
	outcome.Record = &record

	if r.store == nil {
		outcome.Status = StatusExtracted
		return outcome
	}

	if err := r.store.Upsert(ctx, record); err != nil {
		outcome.Status = StatusStoreFailed
		outcome.Err = fmt.Errorf("failed to store %s: %w", sign, err)
		return outcome
	}

	outcome.Status = StatusStored
	return outcome
}

func (r *Runner) report(outcome SignOutcome) {
	if outcome.Err != nil {
		r.logger.Warn("Sign skipped",
			zap.Stringer("sign", outcome.Sign),
			zap.String("status", string(outcome.Status)),
			zap.Error(outcome.Err),
		)
		fmt.Fprintf(r.out, "Could not get horoscope for %s: %v\n", outcome.Sign, outcome.Err)
		return
	}

	r.logger.Debug("Sign processed",
		zap.Stringer("sign", outcome.Sign),
		zap.String("status", string(outcome.Status)),
		zap.String("lucky_number", outcome.Record.LuckyNumber),
		zap.String("lucky_color", outcome.Record.LuckyColor),
	)
	fmt.Fprintf(r.out, "--- %s ---\n%s\n\n", outcome.Sign, outcome.Record.Text)
}
