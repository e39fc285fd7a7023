package udp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/nerrad567/influx-collector/internal/metric"
)

// MaxPayload is the largest UDP payload over IPv4.
const MaxPayload = 65507

const defaultTimeout = 5 * time.Second

// Config holds the settings for a UDP writer.
type Config struct {
	// Address is the listener's host:port.
	Address string

	// Precision is the timestamp unit used when a batch names none.
	Precision time.Duration

	// Timeout bounds each send when the context has no deadline.
	Timeout time.Duration
}

// Client sends point batches as datagrams.
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	cfg  Config
	conn net.Conn

	mu     sync.Mutex
	closed bool
}

// Dial resolves the listener address and opens a connected UDP socket.
//
// Parameters:
//   - ctx: Context for address resolution
//   - cfg: Listener address and defaults
//
// Returns:
//   - *Client: Ready for Write
//   - error: If the address cannot be resolved
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("udp: dialing %s: %w", cfg.Address, err)
	}

	return &Client{cfg: cfg, conn: conn}, nil
}

// Write encodes points and sends them as a single datagram.
func (c *Client) Write(ctx context.Context, points []metric.Point, opts metric.WriteOptions) error {
	if len(points) == 0 {
		return nil
	}

	precision := opts.Precision
	if precision <= 0 {
		precision = c.cfg.Precision
	}

	payload, err := metric.Encode(points, precision)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.cfg.Timeout)
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	if _, err := c.conn.Write(payload); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Close closes the socket. Further writes fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// LocalAddr returns the socket's local address.
func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}
