package collector

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nerrad567/influx-collector/internal/metric"
)

func testPoint(name string, value any) metric.Point {
	return metric.NewPoint(name, value, nil, time.Unix(0, 0), time.Millisecond)
}

func TestBuffer_DrainOrder(t *testing.T) {
	b := NewBuffer()
	b.Append(testPoint("a", 1))
	b.Append(testPoint("b", 2))
	b.Append(testPoint("a", 3))

	if got := b.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}

	want := []Series{
		{Name: "a", Points: []metric.Point{testPoint("a", 1), testPoint("a", 3)}},
		{Name: "b", Points: []metric.Point{testPoint("b", 2)}},
	}
	if diff := cmp.Diff(want, b.Drain()); diff != "" {
		t.Errorf("Drain() mismatch (-want +got):\n%s", diff)
	}

	if got := b.Len(); got != 0 {
		t.Errorf("Len() after Drain() = %d, want 0", got)
	}
	if got := b.Drain(); len(got) != 0 {
		t.Errorf("second Drain() = %v, want empty", got)
	}
}

func TestBuffer_AppendAfterDrain(t *testing.T) {
	b := NewBuffer()
	b.Append(testPoint("a", 1))
	b.Drain()
	b.Append(testPoint("a", 2))

	got := b.Drain()
	if len(got) != 1 || len(got[0].Points) != 1 {
		t.Fatalf("Drain() = %v, want one series with one point", got)
	}
	if !got[0].Points[0].Equal(testPoint("a", 2)) {
		t.Errorf("Drain() point = %v, want a value=2", got[0].Points[0])
	}
}

func TestBuffer_ConcurrentDrainLosesNothing(t *testing.T) {
	const writers, perWriter = 8, 500

	b := NewBuffer()
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				b.Append(testPoint("series", j))
			}
		}()
	}

	done := make(chan struct{})
	total := 0
	go func() {
		defer close(done)
		for {
			for _, s := range b.Drain() {
				total += len(s.Points)
			}
			if total == writers*perWriter {
				return
			}
		}
	}()

	wg.Wait()
	waitSignal(t, done, "drainer")

	if total != writers*perWriter {
		t.Errorf("drained %d points, want %d", total, writers*perWriter)
	}
}
