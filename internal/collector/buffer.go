package collector

import (
	"sync"

	"github.com/nerrad567/influx-collector/internal/metric"
)

// Series is the drained queue of one measurement, in collection order.
type Series struct {
	Name   string
	Points []metric.Point
}

// Buffer is an unbounded, insertion-ordered point queue keyed by series.
//
// Append and Drain are its only mutators. Drain swaps the whole queue out
// under the lock, so points appended while a flush is running land in the
// fresh queue and go out with the next flush.
type Buffer struct {
	mu     sync.Mutex
	series map[string][]metric.Point
	order  []string
	count  int
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{series: make(map[string][]metric.Point)}
}

// Append queues p at the end of its series.
func (b *Buffer) Append(p metric.Point) {
	name := p.Measurement()

	b.mu.Lock()
	defer b.mu.Unlock()

	queue, ok := b.series[name]
	if !ok {
		b.order = append(b.order, name)
	}
	b.series[name] = append(queue, p)
	b.count++
}

// Drain returns every queued series in first-appearance order and leaves the
// buffer empty.
func (b *Buffer) Drain() []Series {
	b.mu.Lock()
	series, order := b.series, b.order
	b.series = make(map[string][]metric.Point)
	b.order = nil
	b.count = 0
	b.mu.Unlock()

	out := make([]Series, 0, len(order))
	for _, name := range order {
		out = append(out, Series{Name: name, Points: series[name]})
	}
	return out
}

// Len returns the number of queued points across all series.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
