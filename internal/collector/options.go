package collector

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
)

// Defaults applied by New for zero-valued Config fields.
const (
	DefaultFlushInterval = 5 * time.Second
	DefaultPrecision     = time.Millisecond
	DefaultBatchPoints   = 50
)

// Config controls when and how the collector flushes.
type Config struct {
	// InstantFlush sends every collected point straight away, bypassing
	// the buffer. The interval timer is not started.
	InstantFlush bool

	// AutoFlush enables the interval timer.
	AutoFlush bool

	// FlushInterval is the interval timer period. Default: 5s.
	FlushInterval time.Duration

	// Precision is passed to the transport with every batch and scales an
	// explicit "time" field. Default: 1ms.
	Precision time.Duration

	// SizeBound marks a size-bounded transport when positive: batches are
	// cut so their encoded size stays within this many bytes.
	SizeBound int

	// BatchPoints is the fixed batch length for size-tolerant transports.
	// Default: 50.
	BatchPoints int
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.Precision <= 0 {
		c.Precision = DefaultPrecision
	}
	if c.BatchPoints <= 0 {
		c.BatchPoints = DefaultBatchPoints
	}
	return c
}

// Logger is the logging surface the collector needs.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock sets the clock driving the flush timer and point timestamps.
func WithClock(c clock.Clock) Option {
	return func(col *Collector) {
		col.clock = c
	}
}

// WithLogger sets the logger for flush diagnostics and write failures.
func WithLogger(l Logger) Option {
	return func(col *Collector) {
		col.log = l
	}
}

// WithRegisterer registers the collector's self-metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(col *Collector) {
		col.registerer = reg
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
