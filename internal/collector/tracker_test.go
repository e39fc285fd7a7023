package collector

import (
	"errors"
	"testing"
	"time"
)

func TestFlushTracker_IdleFiresImmediately(t *testing.T) {
	var tr flushTracker
	fired := make(chan error, 1)

	tr.wait(func(err error) { fired <- err })

	if err := waitSignal(t, fired, "callback"); err != nil {
		t.Errorf("callback error = %v, want nil", err)
	}
}

func TestFlushTracker_ReleasedAtZero(t *testing.T) {
	var tr flushTracker
	fired := make(chan error, 1)

	tr.begin()
	tr.begin()
	tr.wait(func(err error) { fired <- err })

	tr.end(nil)
	select {
	case <-fired:
		t.Fatal("callback fired with a write still in flight")
	case <-time.After(20 * time.Millisecond):
	}

	tr.end(nil)
	if err := waitSignal(t, fired, "callback"); err != nil {
		t.Errorf("callback error = %v, want nil", err)
	}
	if got := tr.count(); got != 0 {
		t.Errorf("count() = %d, want 0", got)
	}
}

func TestFlushTracker_KeepsFirstError(t *testing.T) {
	first := errors.New("first")
	var tr flushTracker
	fired := make(chan error, 1)

	tr.begin()
	tr.begin()
	tr.wait(func(err error) { fired <- err })
	tr.end(first)
	tr.end(errors.New("second"))

	if err := waitSignal(t, fired, "callback"); err != first {
		t.Errorf("callback error = %v, want %v", err, first)
	}
}

func TestFlushTracker_NeverNegative(t *testing.T) {
	var tr flushTracker
	tr.end(nil)

	if got := tr.count(); got != 0 {
		t.Errorf("count() = %d, want 0", got)
	}
}

func TestFlushTracker_NilCallback(t *testing.T) {
	var tr flushTracker
	tr.begin()
	tr.wait(nil)
	tr.end(nil)
}
