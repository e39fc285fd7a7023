package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/influx-collector/internal/infrastructure/config"
)

// serviceName is attached to every log entry.
const serviceName = "influx-collector"

// componentKey names the subsystem that emitted an entry.
const componentKey = "component"

// Logger is the daemon's structured logger.
//
// The embedded slog.Logger supplies Debug, Info, Warn and Error, so a
// *Logger satisfies collector.Logger and transport.Logger directly.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging section of the config.
//
// Every entry carries service and version. Format "text" selects the
// text handler; anything else is JSON. Output "stderr" writes to stderr;
// anything else is stdout.
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		output = os.Stderr
	}

	return newWithWriter(cfg, version, output)
}

func newWithWriter(cfg config.LoggingConfig, version string, output io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// parseLevel maps debug, warn/warning and error; everything else is info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a Logger that adds args to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Component returns a Logger tagged with the emitting subsystem, such as
// "collector" or "transport".
//
// Example:
//
//	col, err := transport.NewCollector(ctx, uri, log.Component("transport"),
//	    collector.WithLogger(log.Component("collector")))
func (l *Logger) Component(name string) *Logger {
	return l.With(componentKey, name)
}

// Default is the bootstrap logger used until the config is loaded:
// JSON on stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
