package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.APIBaseURL != "https://hacker-news.firebaseio.com" {
		t.Errorf("unexpected api_base_url %q", cfg.APIBaseURL)
	}
	if cfg.CacheTTLDuration() != 5*time.Minute {
		t.Errorf("expected 5m default ttl, got %v", cfg.CacheTTLDuration())
	}
	if cfg.Format != "text" {
		t.Errorf("expected text format, got %q", cfg.Format)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults do not validate: %v", err)
	}
}

func TestCacheTTLDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"10m", 10 * time.Minute},
		{"", 5 * time.Minute},
		{"invalid", 5 * time.Minute},
		{"-1m", 5 * time.Minute},
	}
	for _, tt := range tests {
		cfg := &Config{CacheTTL: tt.input}
		if got := cfg.CacheTTLDuration(); got != tt.want {
			t.Errorf("CacheTTLDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRequestTimeoutDuration(t *testing.T) {
	cfg := &Config{RequestTimeout: "3s"}
	if got := cfg.RequestTimeoutDuration(); got != 3*time.Second {
		t.Errorf("expected 3s, got %v", got)
	}
	cfg.RequestTimeout = "bogus"
	if got := cfg.RequestTimeoutDuration(); got != 10*time.Second {
		t.Errorf("expected 10s default, got %v", got)
	}
}

func TestGetWorkers(t *testing.T) {
	if got := (&Config{}).GetWorkers(); got != 8 {
		t.Errorf("expected default 8 workers, got %d", got)
	}
	if got := (&Config{Workers: 3}).GetWorkers(); got != 3 {
		t.Errorf("expected 3 workers, got %d", got)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"chatty", slog.LevelWarn},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.input}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("HNBEST_CONFIG", "")
	t.Setenv("HNBEST_API_BASE_URL", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `cache_ttl: 2m
workers: 16
format: table
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheTTLDuration() != 2*time.Minute {
		t.Errorf("expected 2m, got %v", cfg.CacheTTLDuration())
	}
	if cfg.Workers != 16 {
		t.Errorf("expected 16 workers, got %d", cfg.Workers)
	}
	if cfg.Format != "table" {
		t.Errorf("expected table format, got %q", cfg.Format)
	}
	// Unset keys keep their defaults
	if cfg.APIBaseURL != "https://hacker-news.firebaseio.com" {
		t.Errorf("expected default api_base_url, got %q", cfg.APIBaseURL)
	}
	if cfg.Retries != 2 {
		t.Errorf("expected default retries 2, got %d", cfg.Retries)
	}
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	t.Setenv("HNBEST_CONFIG", "")
	t.Setenv("HNBEST_API_BASE_URL", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "text" {
		t.Errorf("expected defaults when config doesn't exist, got format %q", cfg.Format)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "env.yaml")
	if err := os.WriteFile(cfgPath, []byte("workers: 2\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("HNBEST_CONFIG", cfgPath)
	t.Setenv("HNBEST_API_BASE_URL", "http://localhost:9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("expected HNBEST_CONFIG file to be used, workers=%d", cfg.Workers)
	}
	if cfg.APIBaseURL != "http://localhost:9999" {
		t.Errorf("expected env base url, got %q", cfg.APIBaseURL)
	}
}

func TestLoadExplicitPathBeatsEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.yaml")
	flagPath := filepath.Join(dir, "flag.yaml")
	if err := os.WriteFile(envPath, []byte("workers: 2\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if err := os.WriteFile(flagPath, []byte("workers: 5\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("HNBEST_CONFIG", envPath)
	t.Setenv("HNBEST_API_BASE_URL", "")

	cfg, err := Load(flagPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 5 {
		t.Errorf("expected explicit path to win, workers=%d", cfg.Workers)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Setenv("HNBEST_CONFIG", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("workers: [oops"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("expected parse error")
	}
}

func validConfig() *Config {
	return &Config{APIBaseURL: "https://example.com", Format: "text"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"valid", func(c *Config) {}, ""},
		{"file scheme", func(c *Config) { c.APIBaseURL = "file:///etc/passwd" }, "scheme"},
		{"bad ttl", func(c *Config) { c.CacheTTL = "soon" }, "cache_ttl"},
		{"bad timeout", func(c *Config) { c.RequestTimeout = "later" }, "request_timeout"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"negative rate", func(c *Config) { c.RateLimit = -2 }, "rate_limit"},
		{"negative retries", func(c *Config) { c.Retries = -1 }, "retries"},
		{"negative count", func(c *Config) { c.Count = -5 }, "count"},
		{"unknown format", func(c *Config) { c.Format = "xml" }, "format"},
	}
	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(cfg)
		err := validate(cfg)
		if tt.errSub == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.errSub) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.errSub, err)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := validConfig()
	cfg.Workers = 4
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "workers: 4") {
		t.Errorf("unexpected yaml:\n%s", data)
	}
}
