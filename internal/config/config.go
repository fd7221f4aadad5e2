package config

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	defaultCacheTTL       = 5 * time.Minute
	defaultRequestTimeout = 10 * time.Second
	defaultWorkers        = 8
)

type Config struct {
	APIBaseURL     string  `yaml:"api_base_url"`
	CacheTTL       string  `yaml:"cache_ttl"`
	Workers        int     `yaml:"workers"`
	RequestTimeout string  `yaml:"request_timeout"`
	RateLimit      float64 `yaml:"rate_limit"`
	Retries        int     `yaml:"retries"`
	Count          int     `yaml:"count"`
	Format         string  `yaml:"format"`
	LogLevel       string  `yaml:"log_level"`
	MetricsFile    string  `yaml:"metrics_file,omitempty"`
}

// CacheTTLDuration returns the cache freshness window, defaulting to 5m.
func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return defaultCacheTTL
	}
	return d
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return defaultRequestTimeout
	}
	return d
}

// GetWorkers returns the worker pool size, defaulting to 8.
func (c *Config) GetWorkers() int {
	if c.Workers <= 0 {
		return defaultWorkers
	}
	return c.Workers
}

// SlogLevel maps log_level to a slog level; unknown values mean warn.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "hnbest", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location) layered over the
// embedded defaults. An empty path falls back to HNBEST_CONFIG, then the XDG
// location. HNBEST_API_BASE_URL overrides the API endpoint.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("HNBEST_CONFIG")
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: persist defaults, but a read-only home is not fatal.
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if env := os.Getenv("HNBEST_API_BASE_URL"); env != "" {
		cfg.APIBaseURL = env
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

// Marshal renders the resolved config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate re-checks the config after flag overrides have been applied.
func (c *Config) Validate() error {
	return validate(c)
}

var validFormats = map[string]bool{"text": true, "json": true, "table": true}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("api_base_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.CacheTTL != "" {
		if _, err := time.ParseDuration(cfg.CacheTTL); err != nil {
			return fmt.Errorf("cache_ttl: %w", err)
		}
	}
	if cfg.RequestTimeout != "" {
		if _, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", cfg.RateLimit)
	}
	if cfg.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", cfg.Retries)
	}
	if cfg.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", cfg.Count)
	}
	if !validFormats[cfg.Format] {
		return fmt.Errorf("unknown format %q (valid: text, json, table)", cfg.Format)
	}
	return nil
}
