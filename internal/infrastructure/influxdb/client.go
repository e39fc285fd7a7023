package influxdb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/influx-collector/internal/metric"
)

// Defaults for InfluxDB operations.
const (
	defaultPingTimeout = 5 * time.Second
	defaultTimeout     = 5 * time.Second
	defaultPrecision   = time.Millisecond
)

// Config holds the settings for an InfluxDB HTTP writer.
type Config struct {
	// URL is the server base URL, e.g. "http://localhost:8086".
	URL string

	// Username and Password authenticate against the 1.x compatibility
	// endpoint. Both empty means no authentication.
	Username string
	Password string

	// Database and RetentionPolicy select the target bucket ("db/rp").
	Database        string
	RetentionPolicy string

	// Precision is the timestamp unit for every write. Default: 1ms.
	Precision time.Duration

	// Timeout bounds each HTTP request. Rounded up to whole seconds.
	Timeout time.Duration
}

// Client writes point batches to InfluxDB over HTTP.
//
// Each Write is a single blocking request; batching and retry policy
// belong to the caller.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client    influxdb2.Client
	writeAPI  api.WriteAPIBlocking
	cfg       Config
	precision time.Duration

	// connected is cleared by Close.
	connected bool
	mu        sync.RWMutex
}

// New creates a client for cfg.
//
// It does not contact the server. Metrics are best effort, so an unreachable
// server shows up as write errors rather than a construction failure. Use
// HealthCheck to probe the server explicitly.
//
// Parameters:
//   - cfg: Connection settings
//
// Returns:
//   - *Client: Ready for Write
func New(cfg Config) *Client {
	precision := cfg.Precision
	if precision <= 0 {
		precision = defaultPrecision
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// #nosec G115 -- timeout is positive
	seconds := uint((timeout + time.Second - 1) / time.Second)

	client := influxdb2.NewClientWithOptions(
		strings.TrimRight(cfg.URL, "/"),
		authToken(cfg.Username, cfg.Password),
		influxdb2.DefaultOptions().
			SetPrecision(precision).
			SetHTTPRequestTimeout(seconds),
	)

	return &Client{
		client:    client,
		writeAPI:  client.WriteAPIBlocking("", bucket(cfg.Database, cfg.RetentionPolicy)),
		cfg:       cfg,
		precision: precision,
		connected: true,
	}
}

// Connect creates a client and verifies the server answers a ping.
//
// Parameters:
//   - ctx: Context for the ping
//   - cfg: Connection settings
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: Wrapping ErrConnectionFailed if the ping fails
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	c := New(cfg)
	if err := c.HealthCheck(ctx); err != nil {
		c.Close() //nolint:errcheck // closing after failed ping
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return c, nil
}

// authToken builds the 1.x compatibility token "username:password".
func authToken(username, password string) string {
	if username == "" && password == "" {
		return ""
	}
	return username + ":" + password
}

// bucket maps a database and retention policy onto a v2 bucket name.
func bucket(database, rp string) string {
	if rp == "" {
		return database
	}
	return database + "/" + rp
}

// Write sends points as one request.
//
// Parameters:
//   - ctx: Context for the request
//   - points: The batch, sent in order
//   - opts: Must carry the client's precision (or zero)
//
// Returns:
//   - error: Wrapping ErrWriteFailed, ErrNotConnected or ErrPrecisionMismatch
func (c *Client) Write(ctx context.Context, points []metric.Point, opts metric.WriteOptions) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	if opts.Precision != 0 && opts.Precision != c.precision {
		return fmt.Errorf("%w: client writes %v, batch wants %v", ErrPrecisionMismatch, c.precision, opts.Precision)
	}
	if len(points) == 0 {
		return nil
	}

	wps := make([]*write.Point, len(points))
	for i, p := range points {
		wps[i] = p.WritePoint()
	}

	if err := c.writeAPI.WritePoint(ctx, wps...); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Close releases the underlying HTTP client.
//
// Returns:
//   - error: nil (the InfluxDB client Close doesn't return errors)
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	c.client.Close()
	return nil
}

// HealthCheck verifies the server answers a ping.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	checkCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	healthy, err := c.client.Ping(checkCtx)
	if err != nil {
		return fmt.Errorf("influxdb health check failed: %w", err)
	}
	if !healthy {
		return fmt.Errorf("influxdb health check failed: server not healthy")
	}

	return nil
}

// IsConnected reports whether Close has not been called yet.
//
// Note: This does not contact the server. Use HealthCheck for an
// active probe.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Precision returns the timestamp unit the client writes with.
func (c *Client) Precision() time.Duration {
	return c.precision
}
