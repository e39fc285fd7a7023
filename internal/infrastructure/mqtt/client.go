package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/influx-collector/internal/metric"
)

// Client publishes point batches to an MQTT broker as line protocol.
//
// It provides connection management, automatic reconnection, and
// optional online/offline status publishing.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client  pahomqtt.Client
	options *pahomqtt.ClientOptions
	cfg     Config
	topics  Topics

	// connected tracks current connection state.
	connected bool
	connMu    sync.RWMutex

	// Callbacks for connection events (optional, set via SetOnConnect/SetOnDisconnect).
	onConnect    func()
	onDisconnect func(err error)
	callbackMu   sync.RWMutex
}

// Connect establishes a connection to the MQTT broker.
//
// It performs the following setup:
//  1. Validates the publish topics and QoS
//  2. Builds connection options (broker URL, auth, TLS, LWT)
//  3. Attempts initial connection with timeout
//  4. Publishes online status if a status topic is configured
//
// Parameters:
//   - cfg: Broker and publish settings
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: If the config is invalid or the connection fails within timeout
func Connect(cfg Config) (*Client, error) {
	if err := ValidateTopic(cfg.Topic); err != nil {
		return nil, err
	}
	if cfg.StatusTopic != "" {
		if err := ValidateTopic(cfg.StatusTopic); err != nil {
			return nil, err
		}
	}
	if cfg.QoS > maxQoS {
		return nil, ErrInvalidQoS
	}

	opts := buildClientOptions(cfg)

	c := &Client{
		cfg:     cfg,
		options: opts,
		topics:  Topics{Base: cfg.Topic},
	}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	timeout := cfg.connectTimeout()
	if !token.WaitTimeout(timeout) {
		// Abandon the pending attempt so paho releases its socket and goroutines.
		c.client.Disconnect(0)
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnectHandler runs asynchronously and may not have executed
	// yet, so set the state here for IsConnected.
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	return c, nil
}

// handleConnect is called when the connection is established.
func (c *Client) handleConnect() {
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	c.publishStatus(buildOnlinePayload(c.cfg.clientID()))

	c.callbackMu.RLock()
	callback := c.onConnect
	c.callbackMu.RUnlock()
	if callback != nil {
		callback()
	}
}

// handleDisconnect is called when the connection is lost.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	c.callbackMu.RLock()
	callback := c.onDisconnect
	c.callbackMu.RUnlock()
	if callback != nil {
		callback(err)
	}
}

// publishStatus publishes a retained status message without waiting.
func (c *Client) publishStatus(payload string) pahomqtt.Token {
	if c.cfg.StatusTopic == "" {
		return nil
	}
	return c.client.Publish(c.cfg.StatusTopic, 1, true, payload)
}

// Write encodes points as line protocol and publishes them as one message.
//
// Parameters:
//   - ctx: Bounds the wait for the broker's acknowledgement
//   - points: The batch; all share a measurement when sent by the collector
//   - opts: Timestamp precision (zero uses the configured precision)
//
// Returns:
//   - error: Wrapping ErrPublishFailed, ErrNotConnected or ErrTimeout
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
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return c.Publish(ctx, c.topicFor(points[0]), payload, c.cfg.QoS, false)
}

// topicFor picks the publish topic for a batch.
func (c *Client) topicFor(p metric.Point) string {
	if c.cfg.SeriesTopics {
		return c.topics.Series(p.Measurement())
	}
	return c.topics.Batch()
}

// Close gracefully disconnects from the MQTT broker.
//
// It performs:
//  1. Publishes graceful offline status (different from LWT crash status)
//  2. Waits for pending publish operations
//  3. Disconnects from broker
//
// Returns:
//   - error: Always nil (connection already closed is not an error)
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		if token := c.publishStatus(buildOfflinePayload(c.cfg.clientID())); token != nil {
			token.WaitTimeout(c.cfg.publishTimeout())
		}
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}

// HealthCheck verifies the MQTT connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// IsConnected returns the current connection state.
//
// Note: This reflects the last known state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client.IsConnected()
}

// SetOnConnect sets a callback to be invoked when connection is established.
// This is called on initial connect and on every reconnect.
func (c *Client) SetOnConnect(callback func()) {
	c.callbackMu.Lock()
	c.onConnect = callback
	c.callbackMu.Unlock()
}

// SetOnDisconnect sets a callback to be invoked when connection is lost.
// The error parameter describes why the connection was lost.
func (c *Client) SetOnDisconnect(callback func(err error)) {
	c.callbackMu.Lock()
	c.onDisconnect = callback
	c.callbackMu.Unlock()
}
