package sampler

import (
	"runtime"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultInterval is used when Config.Interval is not positive.
const DefaultInterval = 10 * time.Second

// Reporter receives samples. *collector.Collector satisfies it.
type Reporter interface {
	Collect(measurement string, value any, tags map[string]string)
}

// Config controls what is sampled and how often.
type Config struct {
	Measurement string
	Interval    time.Duration
	Tags        map[string]string
}

// Sampler periodically collects runtime statistics.
//
// Thread Safety: Start and Stop are safe for concurrent use.
type Sampler struct {
	cfg      Config
	reporter Reporter
	clock    clock.Clock

	// previous counter readings for deltas
	prev counters

	ticker   *clock.Ticker
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
}

type counters struct {
	mallocs uint64
	frees   uint64
	numGC   uint32
	cgo     int64
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithClock sets the clock driving the sampling ticker.
func WithClock(c clock.Clock) Option {
	return func(s *Sampler) {
		s.clock = c
	}
}

// New creates a Sampler reporting into r.
func New(r Reporter, cfg Config, opts ...Option) *Sampler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	s := &Sampler{
		cfg:      cfg,
		reporter: r,
		clock:    clock.New(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins sampling every interval. The first sample is taken one
// interval after Start. Calling Start again has no effect.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	s.prev = readCounters(readMemStats())
	s.ticker = s.clock.Ticker(s.cfg.Interval)
	s.wg.Add(1)
	go s.loop()
}

// Stop ends sampling and waits for the loop to exit.
func (s *Sampler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		if s.ticker != nil {
			s.ticker.Stop()
		}
		s.mu.Unlock()
		s.wg.Wait()
	})
}

func (s *Sampler) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.C:
			s.reporter.Collect(s.cfg.Measurement, s.Sample(), s.cfg.Tags)
		case <-s.done:
			return
		}
	}
}

// Sample reads the runtime once and returns the point fields.
//
// Delta fields cover the period since the previous Sample (or Start).
func (s *Sampler) Sample() map[string]any {
	m := readMemStats()
	cur := readCounters(m)

	s.mu.Lock()
	prev := s.prev
	s.prev = cur
	s.mu.Unlock()

	// Integers only: InfluxDB 1.x rejects unsigned fields.
	return map[string]any{
		"heap_objects":     int64(m.HeapObjects),
		"heap_alloc":       int64(m.HeapAlloc),
		"heap_sys":         int64(m.HeapSys),
		"heap_idle":        int64(m.HeapIdle),
		"heap_inuse":       int64(m.HeapInuse),
		"mallocs":          int64(cur.mallocs - prev.mallocs),
		"frees":            int64(cur.frees - prev.frees),
		"gc_runs":          int64(cur.numGC) - int64(prev.numGC),
		"gc_pause_last_ns": int64(m.PauseNs[(m.NumGC+255)%256]),
		"goroutines":       int64(runtime.NumGoroutine()),
		"cgo_calls":        cur.cgo - prev.cgo,
	}
}

func readMemStats() *runtime.MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &m
}

func readCounters(m *runtime.MemStats) counters {
	return counters{
		mallocs: m.Mallocs,
		frees:   m.Frees,
		numGC:   m.NumGC,
		cgo:     runtime.NumCgoCall(),
	}
}
