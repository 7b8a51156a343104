// ABOUTME: Configuration loading and parsing for warden
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete warden configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Flood    FloodConfig    `yaml:"flood"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// WebhookConfig holds inbound webhook configuration
type WebhookConfig struct {
	// SecretToken is compared against the platform's secret header on
	// every update. Empty disables the check.
	SecretToken string `yaml:"secret_token"`

	// Admins lists user IDs treated as chat admins when no platform
	// resolver is available.
	Admins []int64 `yaml:"admins"`
}

// FloodConfig holds flood tracker tuning
type FloodConfig struct {
	IdleSweep time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	IdleSweepRaw string `yaml:"idle_sweep"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Flood.IdleSweepRaw == "" {
		// Idle buckets survive an hour by default before the sweep
		// drops them.
		cfg.Flood.IdleSweep = time.Hour
		return nil
	}

	var err error
	cfg.Flood.IdleSweep, err = time.ParseDuration(cfg.Flood.IdleSweepRaw)
	if err != nil {
		return fmt.Errorf("parsing idle_sweep %q: %w", cfg.Flood.IdleSweepRaw, err)
	}
	if cfg.Flood.IdleSweep <= 0 {
		return fmt.Errorf("idle_sweep must be positive, got %q", cfg.Flood.IdleSweepRaw)
	}

	return nil
}
