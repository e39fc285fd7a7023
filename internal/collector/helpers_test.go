package collector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/influx-collector/internal/metric"
)

// fakeWriter records every batch and can fail or hold writes on demand.
type fakeWriter struct {
	mu     sync.Mutex
	calls  int
	failOn map[int]error
	gates  map[string]chan struct{}
	gate   chan struct{}
	opts   []metric.WriteOptions

	active  map[string]int
	overlap bool
	closed  bool

	batches chan []metric.Point
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		failOn:  make(map[int]error),
		gates:   make(map[string]chan struct{}),
		active:  make(map[string]int),
		batches: make(chan []metric.Point, 1000),
	}
}

func (w *fakeWriter) Write(_ context.Context, points []metric.Point, opts metric.WriteOptions) error {
	name := points[0].Measurement()

	w.mu.Lock()
	w.active[name]++
	if w.active[name] > 1 {
		w.overlap = true
	}
	gate := w.gates[name]
	if gate == nil {
		gate = w.gate
	}
	w.mu.Unlock()

	if gate != nil {
		<-gate
	}

	w.mu.Lock()
	err := w.failOn[w.calls]
	w.calls++
	w.opts = append(w.opts, opts)
	w.active[name]--
	w.mu.Unlock()

	w.batches <- points
	return err
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

// holdSeries makes writes for name block until the returned channel is closed.
func (w *fakeWriter) holdSeries(name string) chan struct{} {
	gate := make(chan struct{})
	w.mu.Lock()
	w.gates[name] = gate
	w.mu.Unlock()
	return gate
}

// holdAll makes every write block until the returned channel is closed.
func (w *fakeWriter) holdAll() chan struct{} {
	gate := make(chan struct{})
	w.mu.Lock()
	w.gate = gate
	w.mu.Unlock()
	return gate
}

func (w *fakeWriter) failCall(n int, err error) {
	w.mu.Lock()
	w.failOn[n] = err
	w.mu.Unlock()
}

func (w *fakeWriter) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

// next waits for the next written batch.
func (w *fakeWriter) next(t *testing.T) []metric.Point {
	t.Helper()
	select {
	case batch := <-w.batches:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a write")
		return nil
	}
}

// expectNone fails if a batch is written within d.
func (w *fakeWriter) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case batch := <-w.batches:
		t.Fatalf("unexpected write of %d points: %v", len(batch), batch)
	case <-time.After(d):
	}
}

// waitSignal waits for one value on ch.
func waitSignal[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		var zero T
		return zero
	}
}
