package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pevans/horoscrape/config"
	"github.com/pevans/horoscrape/logging"
	"github.com/pevans/horoscrape/pipeline"
	"github.com/pevans/horoscrape/records"
	"github.com/pevans/horoscrape/resolver"
	"github.com/pevans/horoscrape/scraper"
	"go.uber.org/zap"
)

// app holds what every command builds from configuration.
type app struct {
	config *config.Config
	logger *zap.Logger
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &app{config: cfg, logger: logger}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) openStore(ctx context.Context) (records.Store, error) {
	store, err := records.Open(ctx, a.config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", a.config.Storage.Type, err)
	}
	return store, nil
}

// newRunner builds a runner for day. store may be nil.
func (a *app) newRunner(store records.Store, day time.Time, out io.Writer) (*pipeline.Runner, error) {
	res, err := resolver.New(a.config.Site.Origin, a.config.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	return pipeline.NewRunner(pipeline.Options{
		Fetcher:  scraper.NewFetcher(a.config.Fetch, nil),
		Resolver: res,
		Site:     a.config.Site,
		Store:    store,
		Logger:   a.logger,
		Out:      out,
		Now:      func() time.Time { return day },
	}), nil
}
