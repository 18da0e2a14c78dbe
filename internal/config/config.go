package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv overrides upstream.api_key when set.
const APIKeyEnv = "RAPIDAPI_KEY"

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is "text" (development) or "json".
	Format string `yaml:"format"`
}

// UpstreamConfig describes the flight data API. An empty APIKey selects the
// embedded mock client.
type UpstreamConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Host     string        `yaml:"host"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
	Currency string        `yaml:"currency"`
	Locale   string        `yaml:"locale"`
}

type SuggestConfig struct {
	Debounce       time.Duration `yaml:"debounce"`
	MinQueryLength int           `yaml:"min_query_length"`
	NearbyRadius   int           `yaml:"nearby_radius"`
	FanoutLimit    int           `yaml:"fanout_limit"`
	CacheSize      int           `yaml:"cache_size"`
}

type CalendarConfig struct {
	// LowestPercentile is the fraction of loaded prices (sorted ascending)
	// whose value marks the "lowest price" threshold.
	LowestPercentile float64 `yaml:"lowest_percentile"`
}

type ResultsConfig struct {
	PageSize int `yaml:"page_size"`
}

type SessionsConfig struct {
	TTL   time.Duration `yaml:"ttl"`
	Sweep string        `yaml:"sweep"`
}

// Config is the top-level application configuration.
type Config struct {
	Listen   string         `yaml:"listen"`
	Log      LogConfig      `yaml:"log"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Calendar CalendarConfig `yaml:"calendar"`
	Results  ResultsConfig  `yaml:"results"`
	Sessions SessionsConfig `yaml:"sessions"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen: ":8080",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Upstream: UpstreamConfig{
			BaseURL:  "https://sky-scrapper.p.rapidapi.com/api/",
			Host:     "sky-scrapper.p.rapidapi.com",
			Timeout:  10 * time.Second,
			Currency: "USD",
			Locale:   "en-US",
		},
		Suggest: SuggestConfig{
			Debounce:       300 * time.Millisecond,
			MinQueryLength: 2,
			NearbyRadius:   100,
			FanoutLimit:    8,
			CacheSize:      1000,
		},
		Calendar: CalendarConfig{
			LowestPercentile: 0.3,
		},
		Results: ResultsConfig{
			PageSize: 4,
		},
		Sessions: SessionsConfig{
			TTL:   30 * time.Minute,
			Sweep: "@every 1m",
		},
	}
}

// Normalize fills in missing/zero values so that partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format != "json" {
		c.Log.Format = def.Log.Format
	}

	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = def.Upstream.BaseURL
	}
	if !strings.HasSuffix(c.Upstream.BaseURL, "/") {
		c.Upstream.BaseURL += "/"
	}
	if c.Upstream.Host == "" {
		c.Upstream.Host = def.Upstream.Host
	}
	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = def.Upstream.Timeout
	}
	if c.Upstream.Currency == "" {
		c.Upstream.Currency = def.Upstream.Currency
	}
	c.Upstream.Currency = strings.ToUpper(c.Upstream.Currency)
	if c.Upstream.Locale == "" {
		c.Upstream.Locale = def.Upstream.Locale
	}

	if c.Suggest.Debounce <= 0 {
		c.Suggest.Debounce = def.Suggest.Debounce
	}
	if c.Suggest.MinQueryLength <= 0 {
		c.Suggest.MinQueryLength = def.Suggest.MinQueryLength
	}
	if c.Suggest.NearbyRadius <= 0 {
		c.Suggest.NearbyRadius = def.Suggest.NearbyRadius
	}
	if c.Suggest.FanoutLimit <= 0 {
		c.Suggest.FanoutLimit = def.Suggest.FanoutLimit
	}
	if c.Suggest.CacheSize <= 0 {
		c.Suggest.CacheSize = def.Suggest.CacheSize
	}

	// Percentile must select an index inside the sorted price list.
	if c.Calendar.LowestPercentile <= 0 || c.Calendar.LowestPercentile >= 1 {
		c.Calendar.LowestPercentile = def.Calendar.LowestPercentile
	}

	if c.Results.PageSize <= 0 {
		c.Results.PageSize = def.Results.PageSize
	}

	if c.Sessions.TTL <= 0 {
		c.Sessions.TTL = def.Sessions.TTL
	}
	if c.Sessions.Sweep == "" {
		c.Sessions.Sweep = def.Sessions.Sweep
	}
}

// Load reads the YAML file at path. A missing file yields the defaults.
// The RAPIDAPI_KEY environment variable always wins over the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.Upstream.APIKey = key
	}

	cfg.Normalize()
	return cfg, nil
}

// UseMock reports whether the embedded mock client should serve requests.
func (c *Config) UseMock() bool {
	return strings.TrimSpace(c.Upstream.APIKey) == ""
}
