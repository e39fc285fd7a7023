package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/influx-collector/internal/dsn"
)

// Config is the root configuration structure for the collector daemon.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CollectorConfig selects the destination and flush policy.
type CollectorConfig struct {
	// DSN is the connection descriptor. Empty disables writing.
	DSN string `yaml:"dsn"`

	// ShutdownTimeout bounds the final drain, in seconds.
	ShutdownTimeout int `yaml:"shutdown_timeout"`
}

// SamplerConfig contains runtime self-sampling settings.
type SamplerConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Interval    int               `yaml:"interval"` // seconds
	Measurement string            `yaml:"measurement"`
	Tags        map[string]string `yaml:"tags"`
}

// MetricsConfig contains the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Path    string `yaml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: INFLUXCOLLECTOR_SECTION_KEY
// For example: INFLUXCOLLECTOR_DSN, INFLUXCOLLECTOR_LOG_LEVEL
//
// Parameters:
//   - path: Path to the YAML configuration file (optional)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Collector: CollectorConfig{
			ShutdownTimeout: 10,
		},
		Sampler: SamplerConfig{
			Enabled:     true,
			Interval:    10,
			Measurement: "collector_runtime",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9273",
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: INFLUXCOLLECTOR_SECTION_KEY
func applyEnvOverrides(cfg *Config) error {
	// Collector (the descriptor may carry a password, so prefer the environment)
	if v := os.Getenv("INFLUXCOLLECTOR_DSN"); v != "" {
		cfg.Collector.DSN = v
	}

	// Sampler
	if v := os.Getenv("INFLUXCOLLECTOR_SAMPLER_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("INFLUXCOLLECTOR_SAMPLER_ENABLED: %w", err)
		}
		cfg.Sampler.Enabled = enabled
	}
	if v := os.Getenv("INFLUXCOLLECTOR_SAMPLER_INTERVAL"); v != "" {
		interval, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INFLUXCOLLECTOR_SAMPLER_INTERVAL: %w", err)
		}
		cfg.Sampler.Interval = interval
	}

	// Metrics
	if v := os.Getenv("INFLUXCOLLECTOR_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Listen = v
	}

	// Logging
	if v := os.Getenv("INFLUXCOLLECTOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("INFLUXCOLLECTOR_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	return nil
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Collector.DSN != "" {
		if _, err := dsn.Parse(c.Collector.DSN); err != nil {
			errs = append(errs, fmt.Sprintf("collector.dsn: %v", err))
		}
	}
	if c.Collector.ShutdownTimeout < 1 {
		errs = append(errs, "collector.shutdown_timeout must be at least 1 second")
	}

	if c.Sampler.Enabled {
		if c.Sampler.Interval < 1 {
			errs = append(errs, "sampler.interval must be at least 1 second")
		}
		if c.Sampler.Measurement == "" {
			errs = append(errs, "sampler.measurement is required when the sampler is enabled")
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.Listen == "" {
			errs = append(errs, "metrics.listen is required when metrics are enabled")
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			errs = append(errs, "metrics.path must start with /")
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, "logging.format must be json or text")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetShutdownTimeout returns the final drain bound as a Duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	return time.Duration(c.Collector.ShutdownTimeout) * time.Second
}

// GetSamplerInterval returns the sampling period as a Duration.
func (c *Config) GetSamplerInterval() time.Duration {
	return time.Duration(c.Sampler.Interval) * time.Second
}
