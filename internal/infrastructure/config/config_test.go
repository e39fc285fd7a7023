package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "collector.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
collector:
  dsn: "udp://influx.local:8089/telegraf?flushInterval=1000"
  shutdown_timeout: 3
sampler:
  interval: 15
  measurement: "runtime"
  tags:
    host: "web-1"
metrics:
  enabled: true
  listen: "127.0.0.1:9100"
logging:
  level: "debug"
  format: "text"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Collector.DSN != "udp://influx.local:8089/telegraf?flushInterval=1000" {
		t.Errorf("Collector.DSN = %q", cfg.Collector.DSN)
	}
	if cfg.GetShutdownTimeout() != 3*time.Second {
		t.Errorf("GetShutdownTimeout() = %v, want 3s", cfg.GetShutdownTimeout())
	}
	if cfg.Sampler.Measurement != "runtime" || cfg.Sampler.Tags["host"] != "web-1" {
		t.Errorf("Sampler = %+v", cfg.Sampler)
	}
	if !cfg.Sampler.Enabled {
		t.Error("Sampler.Enabled = false, want default true")
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, "/metrics")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("INFLUXCOLLECTOR_DSN", "http://localhost:8086/telegraf")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Collector.DSN != "http://localhost:8086/telegraf" {
		t.Errorf("Collector.DSN = %q, want env value", cfg.Collector.DSN)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/collector.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
collector:
  dsn: "gopher://influx.local/db"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() expected validation error for unsupported scheme, got nil")
	}
	if !strings.Contains(err.Error(), "collector.dsn") {
		t.Errorf("Load() error = %v, want collector.dsn mentioned", err)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("INFLUXCOLLECTOR_SAMPLER_INTERVAL", "often")

	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for non-numeric sampler interval, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "valid dsn",
			mutate:  func(c *Config) { c.Collector.DSN = "mqtt://broker/metrics?qos=1" },
			wantErr: false,
		},
		{
			name:    "malformed dsn",
			mutate:  func(c *Config) { c.Collector.DSN = "http://host/db?time_precision=h" },
			wantErr: true,
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Collector.ShutdownTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero sampler interval",
			mutate:  func(c *Config) { c.Sampler.Interval = 0 },
			wantErr: true,
		},
		{
			name: "zero interval with sampler disabled",
			mutate: func(c *Config) {
				c.Sampler.Enabled = false
				c.Sampler.Interval = 0
			},
			wantErr: false,
		},
		{
			name:    "missing sampler measurement",
			mutate:  func(c *Config) { c.Sampler.Measurement = "" },
			wantErr: true,
		},
		{
			name: "metrics without listen",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Listen = ""
			},
			wantErr: true,
		},
		{
			name: "metrics path without slash",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Path = "metrics"
			},
			wantErr: true,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetDurations(t *testing.T) {
	cfg := &Config{
		Collector: CollectorConfig{ShutdownTimeout: 7},
		Sampler:   SamplerConfig{Interval: 30},
	}

	if got := cfg.GetShutdownTimeout().Seconds(); got != 7 {
		t.Errorf("GetShutdownTimeout() = %v, want 7", got)
	}
	if got := cfg.GetSamplerInterval().Seconds(); got != 30 {
		t.Errorf("GetSamplerInterval() = %v, want 30", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("INFLUXCOLLECTOR_DSN", "udp://influx:8089/db")
	t.Setenv("INFLUXCOLLECTOR_SAMPLER_ENABLED", "false")
	t.Setenv("INFLUXCOLLECTOR_SAMPLER_INTERVAL", "60")
	t.Setenv("INFLUXCOLLECTOR_METRICS_LISTEN", ":9999")
	t.Setenv("INFLUXCOLLECTOR_LOG_LEVEL", "warn")
	t.Setenv("INFLUXCOLLECTOR_LOG_FORMAT", "text")

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}

	if cfg.Collector.DSN != "udp://influx:8089/db" {
		t.Errorf("Collector.DSN = %q, want %q", cfg.Collector.DSN, "udp://influx:8089/db")
	}
	if cfg.Sampler.Enabled {
		t.Error("Sampler.Enabled = true, want false")
	}
	if cfg.Sampler.Interval != 60 {
		t.Errorf("Sampler.Interval = %d, want 60", cfg.Sampler.Interval)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Listen != ":9999" {
		t.Errorf("Metrics = %+v, want enabled on :9999", cfg.Metrics)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Collector.DSN != "" {
		t.Errorf("defaultConfig Collector.DSN = %q, want empty", cfg.Collector.DSN)
	}
	if cfg.Sampler.Interval != 10 {
		t.Errorf("defaultConfig Sampler.Interval = %d, want 10", cfg.Sampler.Interval)
	}
	if cfg.Metrics.Enabled {
		t.Error("defaultConfig Metrics.Enabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig Validate() error = %v", err)
	}
}
