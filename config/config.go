// Package config loads horoscrape settings from .env files, a YAML file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pevans/horoscrape/records"
	"github.com/pevans/horoscrape/resolver"
	"github.com/pevans/horoscrape/scraper"
)

var (
	ErrMissingCredentials = errors.New("postgres storage requires HOROSCRAPE_DATABASE_URL or storage.dsn")
	ErrUnknownStorage     = errors.New("unknown storage type")
)

const (
	DefaultStorageType = "sqlite"
	DefaultSQLiteDSN   = "horoscopes.db"
	DefaultLogLevel    = "info"
)

// Config is everything one run needs.
type Config struct {
	Storage  records.Config      `yaml:"storage"`
	Site     scraper.SiteConfig  `yaml:"site"`
	Fetch    scraper.FetchConfig `yaml:"fetch"`
	Rules    resolver.Rules      `yaml:"rules"`
	LogLevel string              `yaml:"log_level"`
}

// Load builds a Config. path may be empty, in which case
// ~/.horoscrape/config.yaml is used if it exists.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	cfg := &Config{}
	fileCfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		cfg = fileCfg
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills zero-value fields.
func (c *Config) SetDefaults() {
	if c.Storage.Type == "" {
		c.Storage.Type = DefaultStorageType
	}
	if c.Storage.DSN == "" && c.Storage.Type == "sqlite" {
		c.Storage.DSN = DefaultSQLiteDSN
	}
	if c.Storage.DSN == "" && c.Storage.Type == "file" {
		c.Storage.DSN = "horoscopes"
	}

	site := scraper.DefaultSiteConfig()
	if c.Site.Origin == "" {
		c.Site.Origin = site.Origin
	}
	if c.Site.ListingURL == "" {
		c.Site.ListingURL = site.ListingURL
	}

	c.Fetch = c.Fetch.WithDefaults()

	if c.Rules.TopicMarker == "" {
		c.Rules.TopicMarker = resolver.DefaultRules.TopicMarker
	}
	if c.Rules.GenericMarker == "" {
		c.Rules.GenericMarker = resolver.DefaultRules.GenericMarker
	}
	if c.Rules.Denylist == nil {
		c.Rules.Denylist = resolver.DefaultRules.Denylist
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks that the storage backend can be opened.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "sqlite", "file":
		return nil
	case "postgres":
		if c.Storage.DSN == "" {
			return ErrMissingCredentials
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage.Type)
	}
}

// loadEnvFiles loads ENV_FILE if set, else .env.local then .env. Values
// already in the environment are never overwritten, and missing files are
// ignored.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("HOROSCRAPE_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("HOROSCRAPE_DATABASE_URL"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("HOROSCRAPE_LISTING_URL"); v != "" {
		cfg.Site.ListingURL = v
	}
	if v := os.Getenv("HOROSCRAPE_LISTING_FEED_URL"); v != "" {
		cfg.Site.ListingFeedURL = v
	}
	if v := os.Getenv("HOROSCRAPE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	durations := map[string]*time.Duration{
		"HOROSCRAPE_POLITENESS_DELAY": &cfg.Fetch.PolitenessDelay,
		"HOROSCRAPE_FETCH_TIMEOUT":    &cfg.Fetch.Timeout,
	}
	for name, target := range durations {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		*target = d
	}

	if v := os.Getenv("HOROSCRAPE_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse HOROSCRAPE_MAX_RETRIES: %w", err)
		}
		cfg.Fetch.MaxRetries = n
	}

	return nil
}
