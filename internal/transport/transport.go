package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/influx-collector/internal/collector"
	"github.com/nerrad567/influx-collector/internal/dsn"
	"github.com/nerrad567/influx-collector/internal/infrastructure/influxdb"
	"github.com/nerrad567/influx-collector/internal/infrastructure/mqtt"
	"github.com/nerrad567/influx-collector/internal/infrastructure/udp"
)

// healthCheckTimeout bounds the startup reachability check.
const healthCheckTimeout = 5 * time.Second

// Logger receives transport connection events.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// healthChecker is implemented by writers that can probe their destination.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dial builds the write transport d selects.
//
// Parameters:
//   - ctx: Bounds address resolution (udp); the http client does not dial
//   - d: Parsed descriptor
//   - log: Receives broker connection events (mqtt); nil discards them
//
// Returns:
//   - collector.Writer: Also an io.Closer
//   - error: If the transport cannot be set up
func Dial(ctx context.Context, d dsn.Descriptor, log Logger) (collector.Writer, error) {
	if log == nil {
		log = nopLogger{}
	}

	switch d.Transport() {
	case dsn.TransportUDP:
		c, err := udp.Dial(ctx, udp.Config{
			Address:   d.Address(),
			Precision: d.Precision,
			Timeout:   d.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case dsn.TransportMQTT:
		c, err := mqtt.Connect(mqtt.Config{
			Host:         d.Host,
			Port:         d.Port,
			TLS:          d.Scheme == "mqtts",
			ClientID:     d.ClientID,
			Username:     d.Username,
			Password:     d.Password,
			Topic:        d.Database,
			SeriesTopics: d.SeriesTopics,
			StatusTopic:  d.StatusTopic,
			QoS:          d.QoS,
			Precision:    d.Precision,
			Timeout:      d.Timeout,
		})
		if err != nil {
			return nil, err
		}
		watchConnection(c, log)
		return c, nil

	case dsn.TransportHTTP:
		return influxdb.New(influxdb.Config{
			URL:             fmt.Sprintf("%s://%s", d.Scheme, d.Address()),
			Username:        d.Username,
			Password:        d.Password,
			Database:        d.Database,
			RetentionPolicy: d.RetentionPolicy,
			Precision:       d.Precision,
			Timeout:         d.Timeout,
		}), nil

	default:
		return nil, fmt.Errorf("%w: %q", dsn.ErrUnsupportedScheme, d.Scheme)
	}
}

// watchConnection logs broker drops and reconnects. Paho reconnects on its
// own; points written while the link is down fail and are reported by the
// collector.
func watchConnection(c *mqtt.Client, log Logger) {
	c.SetOnConnect(func() {
		log.Info("mqtt connected")
	})
	c.SetOnDisconnect(func(err error) {
		log.Warn("mqtt connection lost", "error", err)
	})
}

// checkHealth probes w once. An unreachable destination is logged, not
// fatal: the collector still buffers and each failed batch is reported.
func checkHealth(ctx context.Context, w collector.Writer, d dsn.Descriptor, log Logger) {
	hc, ok := w.(healthChecker)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := hc.HealthCheck(ctx); err != nil {
		log.Warn("destination health check failed", "dsn", d.Redacted(), "error", err)
		return
	}
	log.Info("destination reachable", "dsn", d.Redacted())
}

// NewCollector parses uri, dials its transport and starts a collector.
//
// Parameters:
//   - ctx: Passed to Dial and the startup health check
//   - uri: Connection descriptor; empty yields collector.Nop()
//   - log: Receives connection events; nil discards them
//   - opts: Collector options (clock, logger, registerer)
//
// Returns:
//   - *collector.Collector: Running collector; Close it on shutdown
//   - error: Wrapping dsn.ErrInvalidDescriptor or the transport's setup error
func NewCollector(ctx context.Context, uri string, log Logger, opts ...collector.Option) (*collector.Collector, error) {
	if uri == "" {
		return collector.Nop(), nil
	}

	d, err := dsn.Parse(uri)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = nopLogger{}
	}

	w, err := Dial(ctx, d, log)
	if err != nil {
		return nil, fmt.Errorf("connecting %s: %w", d.Redacted(), err)
	}
	checkHealth(ctx, w, d, log)

	return collector.New(w, d.Config(), opts...), nil
}
