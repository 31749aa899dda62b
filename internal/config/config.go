package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"MarketLens/internal/collector"
)

// DefaultPath is used when neither --config nor MARKETLENS_CONFIG is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Provider struct {
		Name      string        `yaml:"name"` // "yahoo" or "mock"
		BaseURL   string        `yaml:"base_url"`
		UserAgent string        `yaml:"user_agent"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"provider"`
	Rates struct {
		Symbol   string        `yaml:"symbol"`
		Field    string        `yaml:"field"`
		Attempts int           `yaml:"attempts"`
		Backoff  time.Duration `yaml:"backoff"`
	} `yaml:"rates"`
	Dividends struct {
		DefaultMonths int `yaml:"default_months"`
	} `yaml:"dividends"`
	Chart struct {
		ListenAddr   string `yaml:"listen_addr"`
		PrintURLOnly bool   `yaml:"print_url_only"`
	} `yaml:"chart"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// ResolvePath picks the config file path: flag value, then env, then default.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("MARKETLENS_CONFIG"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
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
	if v := os.Getenv("MARKETLENS_PROVIDER"); v != "" {
		cfg.Provider.Name = v
	}
	if v := os.Getenv("MARKETLENS_PROVIDER_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("MARKETLENS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MARKETLENS_RATE_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MARKETLENS_RATE_ATTEMPTS: %w", err)
		}
		cfg.Rates.Attempts = n
	}
	if v := os.Getenv("MARKETLENS_PRINT_URL_ONLY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MARKETLENS_PRINT_URL_ONLY: %w", err)
		}
		cfg.Chart.PrintURLOnly = b
	}

	// Defaults
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = "yahoo"
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = collector.DefaultYahooBaseURL
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}
	if cfg.Rates.Symbol == "" {
		cfg.Rates.Symbol = collector.DefaultRateSymbol
	}
	if cfg.Rates.Field == "" {
		cfg.Rates.Field = collector.DefaultRateField
	}
	if cfg.Rates.Attempts == 0 {
		cfg.Rates.Attempts = collector.DefaultRateAttempts
	}
	if cfg.Rates.Backoff == 0 {
		cfg.Rates.Backoff = collector.DefaultRateBackoff
	}
	if cfg.Dividends.DefaultMonths == 0 {
		cfg.Dividends.DefaultMonths = collector.DefaultDividendMonths
	}
	if cfg.Chart.ListenAddr == "" {
		cfg.Chart.ListenAddr = "127.0.0.1:0"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("provider.name must be yahoo or mock, got %q", c.Provider.Name)
	}
	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider.timeout must not be negative")
	}
	if c.Rates.Attempts < 1 {
		return fmt.Errorf("rates.attempts must be at least 1")
	}
	if c.Rates.Backoff < 0 {
		return fmt.Errorf("rates.backoff must not be negative")
	}
	if c.Dividends.DefaultMonths < 1 {
		return fmt.Errorf("dividends.default_months must be at least 1")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// NewProvider builds the configured market-data provider.
func (c *Config) NewProvider() collector.Provider {
	if c.Provider.Name == "mock" {
		return &collector.MockProvider{Rate: 1350, Dividend: 1.6}
	}
	return collector.NewYahooProvider(c.Provider.BaseURL, c.Provider.UserAgent, c.Proxy, c.Provider.Timeout)
}
