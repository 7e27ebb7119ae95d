// Package config loads service configuration from defaults, an optional
// YAML file, and environment variables, in that order of priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths lists where a config file is searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ssot-api/config.yaml",
}

// Config is the full service configuration. The environment variable names
// (PORT, BQ_PROJECT, TTL_INTRADAY_SECONDS, ...) are a deployment contract
// and must not change.
type Config struct {
	Port int `koanf:"port"`

	BQProject  string `koanf:"bq_project"`
	BQDataset  string `koanf:"bq_dataset"`
	BQLocation string `koanf:"bq_location"`

	TTLIntradaySeconds int `koanf:"ttl_intraday_seconds"`
	TTLClosedSeconds   int `koanf:"ttl_closed_seconds"`
	MaxRangeDays       int `koanf:"max_range_days"`

	MaxBytesBilled int64 `koanf:"max_bytes_billed"`

	// CORSAllowOrigins is a comma-separated origin allow-list. Empty means
	// every origin is allowed.
	CORSAllowOrigins string `koanf:"cors_allow_origins"`

	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	LogLevel  string `koanf:"log_level"`
	LogPretty bool   `koanf:"log_pretty"`
}

// defaultConfig returns the stock configuration, applied before file and
// env overrides.
func defaultConfig() *Config {
	return &Config{
		Port:               8080,
		BQProject:          "reise-ssot",
		BQDataset:          "mart_growth_us",
		BQLocation:         "US",
		TTLIntradaySeconds: 300,
		TTLClosedSeconds:   3600,
		MaxRangeDays:       400,
		MaxBytesBilled:     5 * 1024 * 1024 * 1024,
		CORSAllowOrigins:   "",
		RateLimitReqs:      120,
		RateLimitWindow:    time.Minute,
		LogLevel:           "info",
		LogPretty:          false,
	}
}

// Load builds the configuration: struct defaults, then an optional YAML
// file, then environment variables.
func Load() (*Config, error) {
	// File and env land in their own tree first, so it stays visible which
	// keys were set explicitly rather than inherited from the defaults.
	overrides := koanf.New(".")

	if path := findConfigFile(); path != "" {
		if err := overrides.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// PORT -> port, BQ_PROJECT -> bq_project, and so on.
	if err := overrides.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Merge(overrides); err != nil {
		return nil, fmt.Errorf("merge overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	// The project can also arrive through the standard GCP variable, but
	// only when neither the file nor BQ_PROJECT set it explicitly.
	if !overrides.Exists("bq_project") {
		if gcp := os.Getenv("GOOGLE_CLOUD_PROJECT"); gcp != "" {
			cfg.BQProject = gcp
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.BQProject == "" {
		return fmt.Errorf("bq_project is required")
	}
	if c.BQDataset == "" {
		return fmt.Errorf("bq_dataset is required")
	}
	if c.TTLIntradaySeconds <= 0 || c.TTLClosedSeconds <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.MaxRangeDays <= 0 {
		return fmt.Errorf("max_range_days must be positive")
	}
	if c.MaxBytesBilled <= 0 {
		return fmt.Errorf("max_bytes_billed must be positive")
	}
	return nil
}

// TTLIntraday returns the intraday TTL as a duration.
func (c *Config) TTLIntraday() time.Duration {
	return time.Duration(c.TTLIntradaySeconds) * time.Second
}

// TTLClosed returns the closed-range TTL as a duration.
func (c *Config) TTLClosed() time.Duration {
	return time.Duration(c.TTLClosedSeconds) * time.Second
}

// AllowedOrigins splits the CORS allow-list. Nil means allow all.
func (c *Config) AllowedOrigins() []string {
	raw := strings.TrimSpace(c.CORSAllowOrigins)
	if raw == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
