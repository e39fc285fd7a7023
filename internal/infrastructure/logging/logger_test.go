package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/nerrad567/influx-collector/internal/collector"
	"github.com/nerrad567/influx-collector/internal/infrastructure/config"
	"github.com/nerrad567/influx-collector/internal/transport"
)

// decodeEntry parses a single JSON log line.
func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json.Unmarshal(%q) error = %v", buf.String(), err)
	}
	return entry
}

// =============================================================================
// Construction Tests
// =============================================================================

func TestNew_OutputSelection(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", "STDERR", ""} {
		if New(config.LoggingConfig{Output: output}, "1.0.0") == nil {
			t.Errorf("New(output=%q) = nil", output)
		}
	}
	if Default() == nil {
		t.Error("Default() = nil")
	}
}

func TestNewWithWriter_Format(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"flushed"`},
		{"", `"msg":"flushed"`},
		{"text", "msg=flushed"},
		{"TEXT", "msg=flushed"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			newWithWriter(config.LoggingConfig{Format: tt.format}, "test", &buf).Info("flushed")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// =============================================================================
// Output Tests
// =============================================================================

func TestLogger_DefaultFields(t *testing.T) {
	var buf bytes.Buffer

	logger := newWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, "test", &buf)
	logger.Info("batch written", "points", 3)

	entry := decodeEntry(t, &buf)
	want := map[string]any{
		"service": "influx-collector",
		"version": "test",
		"msg":     "batch written",
		"points":  float64(3),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], v)
		}
	}
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer

	base := newWithWriter(config.LoggingConfig{Format: "json"}, "test", &buf)
	base.Component("transport").Warn("mqtt connection lost")

	entry := decodeEntry(t, &buf)
	if entry[componentKey] != "transport" {
		t.Errorf("entry[%q] = %v, want transport", componentKey, entry[componentKey])
	}
	if entry["service"] != "influx-collector" {
		t.Errorf("entry[service] = %v, want influx-collector", entry["service"])
	}

	buf.Reset()
	base.Info("untagged")
	if _, ok := decodeEntry(t, &buf)[componentKey]; ok {
		t.Error("Component() leaked its attribute into the parent logger")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := newWithWriter(config.LoggingConfig{Level: "warn", Format: "text"}, "test", &buf)
	logger.Debug("batch sizes computed")
	logger.Warn("discarding point without fields", "measurement", "cpu")

	output := buf.String()
	if strings.Contains(output, "batch sizes computed") {
		t.Error("debug entry written at warn level")
	}
	if !strings.Contains(output, "measurement=cpu") {
		t.Errorf("output = %q, want measurement=cpu", output)
	}
}

func TestLogger_SatisfiesConsumers(t *testing.T) {
	var _ collector.Logger = Default()
	var _ collector.Logger = Default().Component("collector")
	var _ transport.Logger = Default().Component("transport")
}
