package collector

import (
	"context"

	"github.com/nerrad567/influx-collector/internal/metric"
)

// chain is the remaining work of one drained series.
type chain struct {
	name   string
	points []metric.Point

	// sizes holds the encoded size of each remaining point; nil unless the
	// transport is size bounded.
	sizes []int
}

// dispatch counts the first batch of s in flight and sends the series on its
// own goroutine.
func (c *Collector) dispatch(s Series) {
	if len(s.Points) == 0 {
		return
	}

	ch := &chain{name: s.Name, points: s.Points}
	if c.cfg.SizeBound > 0 {
		ch.sizes = make([]int, len(s.Points))
		for i, p := range s.Points {
			ch.sizes[i] = p.Size(c.cfg.Precision)
		}
	}

	batch := c.next(ch)
	c.begin()
	go c.send(ch, batch)
}

// next cuts the next batch off the front of ch.
func (c *Collector) next(ch *chain) []metric.Point {
	n := c.cfg.BatchPoints
	if ch.sizes != nil {
		n = ComputeCount(ch.sizes, c.cfg.SizeBound)
		ch.sizes = ch.sizes[n:]
	}
	n = min(n, len(ch.points))

	batch := ch.points[:n:n]
	ch.points = ch.points[n:]
	return batch
}

// send writes the batches of ch one after another.
//
// Batch N+1 is not written until batch N resolves. A failure drops whatever
// is left of the series.
func (c *Collector) send(ch *chain, batch []metric.Point) {
	opts := metric.WriteOptions{Precision: c.cfg.Precision}

	for {
		err := c.writer.Write(context.Background(), batch, opts)
		if err != nil {
			dropped := len(ch.points)
			c.stats.failures.Inc()
			c.stats.dropped.Add(float64(len(batch) + dropped))
			c.reportError(&BatchError{
				Measurement: ch.name,
				Points:      len(batch),
				Dropped:     dropped,
				Err:         err,
			})
			c.end(err)
			return
		}

		c.stats.batches.Inc()
		c.stats.written.Add(float64(len(batch)))

		if len(ch.points) == 0 {
			c.end(nil)
			return
		}

		// The next batch is counted before this one settles so the
		// in-flight count never touches zero mid-series.
		batch = c.next(ch)
		c.begin()
		c.end(nil)
	}
}

func (c *Collector) begin() {
	c.flights.begin()
	c.stats.inFlight.Inc()
}

func (c *Collector) end(err error) {
	c.stats.inFlight.Dec()
	c.flights.end(err)
}
