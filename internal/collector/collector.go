package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/influx-collector/internal/metric"
)

// Writer is the write transport a Collector dispatches batches to.
//
// Write blocks until the batch is accepted or rejected. Timeouts are the
// transport's business; the collector passes a background context.
type Writer interface {
	Write(ctx context.Context, points []metric.Point, opts metric.WriteOptions) error
}

// Collector buffers points and flushes them to a Writer.
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
type Collector struct {
	cfg    Config
	writer Writer
	buffer *Buffer

	// flights gates FlushCallbacks on the global in-flight count.
	flights flushTracker

	clock      clock.Clock
	log        Logger
	registerer prometheus.Registerer
	stats      *stats

	handlers   []func(error)
	handlersMu sync.RWMutex

	// Interval timer
	ticker   *clock.Ticker
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	// nop collectors drop everything; built when no writer is configured.
	nop bool
}

// New creates a Collector that writes to w.
//
// If cfg enables AutoFlush (and not InstantFlush) the interval timer starts
// immediately. A nil writer yields the same no-op collector as Nop.
//
// Parameters:
//   - w: The write transport
//   - cfg: Flush policy; zero fields take the package defaults
//   - opts: Optional clock, logger and metrics registerer
//
// Returns:
//   - *Collector: Ready for use; call Stop or Close when done
func New(w Writer, cfg Config, opts ...Option) *Collector {
	c := &Collector{
		cfg:    cfg.withDefaults(),
		writer: w,
		buffer: NewBuffer(),
		clock:  clock.New(),
		log:    nopLogger{},
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stats = newStats(c.registerer)

	if w == nil {
		c.nop = true
		return c
	}

	if c.cfg.AutoFlush && !c.cfg.InstantFlush {
		c.ticker = c.clock.Ticker(c.cfg.FlushInterval)
		c.wg.Add(1)
		go c.flushLoop()
	}

	return c
}

// Nop returns a collector that discards every point.
//
// Flush callbacks still fire (with a nil error), so callers need not special
// case a disabled metrics pipeline.
func Nop() *Collector {
	return New(nil, Config{})
}

// flushLoop flushes on every timer tick until Stop.
func (c *Collector) flushLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.ticker.C:
			c.Flush(nil)
		case <-c.done:
			return
		}
	}
}

// Collect records one observation.
//
// A value that is not a field mapping is stored as a single "value" field.
// In instant-flush mode the point is dispatched before Collect returns;
// otherwise it is queued for the next flush. Collect never waits on the
// network and never reports errors.
//
// Parameters:
//   - measurement: Series name
//   - value: Field mapping or bare primitive
//   - tags: Optional tag set
func (c *Collector) Collect(measurement string, value any, tags map[string]string) {
	if c.nop {
		return
	}

	p := metric.NewPoint(measurement, value, tags, c.clock.Now(), c.cfg.Precision)
	if !p.HasFields() {
		c.log.Warn("discarding point without fields", "measurement", measurement)
		return
	}
	c.stats.collected.Inc()

	if c.cfg.InstantFlush {
		c.dispatch(Series{Name: measurement, Points: []metric.Point{p}})
		return
	}
	c.buffer.Append(p)
}

// Flush drains the buffer and starts one dispatch chain per series.
//
// Flush returns without waiting for the writes. callback (optional) fires
// once no write is in flight anywhere in the collector; see FlushCallback.
// Flushing an empty buffer is fine and still releases the callback.
func (c *Collector) Flush(callback FlushCallback) {
	if !c.nop {
		series := c.buffer.Drain()
		if len(series) > 0 {
			c.log.Debug("flushing buffered points", "series", len(series))
		}
		for _, s := range series {
			c.dispatch(s)
		}
	}
	c.flights.wait(callback)
}

// Stop cancels the interval timer and performs one final flush.
//
// It does not wait for that flush to complete; use Close for that. Calling
// Stop more than once has no further effect.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		if c.ticker != nil {
			c.ticker.Stop()
			close(c.done)
			c.wg.Wait()
		}
		c.Flush(nil)
	})
}

// Close stops the collector, waits for in-flight writes, and closes the
// writer if it implements io.Closer.
//
// Parameters:
//   - ctx: Bounds the wait for in-flight writes
//
// Returns:
//   - error: ctx's error if the wait was cut short, or the writer's Close error
func (c *Collector) Close(ctx context.Context) error {
	c.Stop()
	if c.nop {
		return nil
	}

	drained := make(chan struct{})
	c.flights.wait(func(error) { close(drained) })

	var waitErr error
	select {
	case <-drained:
	case <-ctx.Done():
		waitErr = fmt.Errorf("waiting for in-flight writes: %w", ctx.Err())
	}

	if closer, ok := c.writer.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return errors.Join(waitErr, fmt.Errorf("closing writer: %w", err))
		}
	}
	return waitErr
}

// OnError registers an observer for failed batches.
//
// Each failed batch is delivered once to every observer as a *BatchError.
// Observers run on the dispatching goroutine and should not block.
func (c *Collector) OnError(handler func(err error)) {
	if handler == nil {
		return
	}
	c.handlersMu.Lock()
	c.handlers = append(c.handlers, handler)
	c.handlersMu.Unlock()
}

// InFlight returns the number of writes sent and not yet resolved.
func (c *Collector) InFlight() int {
	return c.flights.count()
}

// Pending returns the number of points waiting for the next flush.
func (c *Collector) Pending() int {
	return c.buffer.Len()
}

// reportError delivers a batch failure to the log and every observer.
func (c *Collector) reportError(err *BatchError) {
	c.log.Error("metrics batch write failed",
		"measurement", err.Measurement,
		"points", err.Points,
		"dropped", err.Dropped,
		"error", err.Err,
	)

	c.handlersMu.RLock()
	handlers := append([]func(error){}, c.handlers...)
	c.handlersMu.RUnlock()

	for _, h := range handlers {
		c.notify(h, err)
	}
}

// notify runs one observer with panic recovery.
func (c *Collector) notify(handler func(error), err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("error observer panic recovered", "panic", r)
		}
	}()
	handler(err)
}
