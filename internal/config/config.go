package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Cache struct {
		Dir            string `yaml:"dir"`
		RefreshSeconds int    `yaml:"refresh_interval_seconds"`
	} `yaml:"cache"`
	Chart struct {
		Output     string `yaml:"output"`
		Indicators string `yaml:"indicators"`
		StartDate  string `yaml:"start_date"`
	} `yaml:"chart"`
	Schedule struct {
		WatchCron string `yaml:"watch_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	SymbolsFile string `yaml:"symbols_file"`
	Concurrency int    `yaml:"concurrency"`
	Proxy       string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BARS_API_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("BARS_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("CACHE_REFRESH_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Cache.RefreshSeconds = secs
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Schedule.WatchCron = v
	}

	// Defaults
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "cache"
	}
	if cfg.Cache.RefreshSeconds == 0 {
		cfg.Cache.RefreshSeconds = 10800
	}
	if cfg.Chart.Output == "" {
		cfg.Chart.Output = "dashboard.html"
	}
	if cfg.Chart.Indicators == "" {
		cfg.Chart.Indicators = "MA50,MA200"
	}
	if cfg.Chart.StartDate == "" {
		cfg.Chart.StartDate = "2018-01-01"
	}
	if cfg.SymbolsFile == "" {
		cfg.SymbolsFile = "stocks.txt"
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 4
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Cache.RefreshSeconds < 0 {
		return fmt.Errorf("cache.refresh_interval_seconds must not be negative")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if _, err := time.Parse("2006-01-02", c.Chart.StartDate); err != nil {
		return fmt.Errorf("chart.start_date: %w", err)
	}
	return nil
}

// RefreshInterval returns the cache refresh interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Cache.RefreshSeconds) * time.Second
}
