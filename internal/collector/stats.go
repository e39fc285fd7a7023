package collector

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const statsNamespace = "influx_collector"

// stats holds the collector's self-metrics.
type stats struct {
	collected prometheus.Counter
	batches   prometheus.Counter
	written   prometheus.Counter
	failures  prometheus.Counter
	dropped   prometheus.Counter
	inFlight  prometheus.Gauge
}

func newStats(reg prometheus.Registerer) *stats {
	s := &stats{
		collected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: statsNamespace,
			Name:      "points_collected_total",
			Help:      "Points accepted by Collect.",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: statsNamespace,
			Name:      "batches_written_total",
			Help:      "Batches accepted by the write transport.",
		}),
		written: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: statsNamespace,
			Name:      "points_written_total",
			Help:      "Points accepted by the write transport.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: statsNamespace,
			Name:      "batch_errors_total",
			Help:      "Batches rejected by the write transport.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: statsNamespace,
			Name:      "points_dropped_total",
			Help:      "Points lost to failed writes, including the failed batch.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: statsNamespace,
			Name:      "writes_in_flight",
			Help:      "Writes sent to the transport and not yet resolved.",
		}),
	}

	if reg == nil {
		return s
	}

	s.collected = register(reg, s.collected).(prometheus.Counter)
	s.batches = register(reg, s.batches).(prometheus.Counter)
	s.written = register(reg, s.written).(prometheus.Counter)
	s.failures = register(reg, s.failures).(prometheus.Counter)
	s.dropped = register(reg, s.dropped).(prometheus.Counter)
	s.inFlight = register(reg, s.inFlight).(prometheus.Gauge)
	return s
}

// register adds c to reg, reusing the collector already registered under the
// same name so several collectors can share one registry.
func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		// Registration can only fail on a descriptor clash; keep the
		// unregistered metric so the collector still works.
		return c
	}
	return c
}
