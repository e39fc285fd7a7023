package collector

import "sync"

// FlushCallback is invoked once all in-flight writes have settled.
//
// err is the first write error observed while the callback was waiting, or
// nil if every write that settled in that window succeeded.
type FlushCallback func(err error)

// flushTracker counts writes in flight and releases completion callbacks.
//
// The count is global to the collector, not scoped per flush. A callback
// registered by one flush is released the first time the count returns to
// zero, which may be caused by a different flush finishing, and it keeps
// waiting while any other flush is still in flight. Callbacks always run on
// their own goroutine.
type flushTracker struct {
	mu       sync.Mutex
	inFlight int
	waiting  []*flushWaiter
}

type flushWaiter struct {
	callback FlushCallback
	err      error
}

// begin counts one more write in flight. Call it before the write starts.
func (t *flushTracker) begin() {
	t.mu.Lock()
	t.inFlight++
	t.mu.Unlock()
}

// end settles one write and releases the waiting callbacks if nothing else is
// in flight.
func (t *flushTracker) end(err error) {
	t.mu.Lock()
	if t.inFlight > 0 {
		t.inFlight--
	}
	for _, w := range t.waiting {
		if w.err == nil {
			w.err = err
		}
	}
	var ready []*flushWaiter
	if t.inFlight == 0 {
		ready, t.waiting = t.waiting, nil
	}
	t.mu.Unlock()

	for _, w := range ready {
		go w.callback(w.err)
	}
}

// wait registers callback to run once the in-flight count is zero. If it
// already is, the callback is scheduled straight away.
func (t *flushTracker) wait(callback FlushCallback) {
	if callback == nil {
		return
	}

	t.mu.Lock()
	if t.inFlight > 0 {
		t.waiting = append(t.waiting, &flushWaiter{callback: callback})
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	go callback(nil)
}

// count returns the number of writes in flight.
func (t *flushTracker) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}
