// influx-collector daemon
//
// collectord samples its own Go runtime and ships the points through the
// collector's buffer and flush engine to the InfluxDB, UDP or MQTT
// destination named by the configured descriptor. It doubles as a
// reference wiring of the collector for embedding applications.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/influx-collector/internal/collector"
	"github.com/nerrad567/influx-collector/internal/dsn"
	"github.com/nerrad567/influx-collector/internal/infrastructure/config"
	"github.com/nerrad567/influx-collector/internal/infrastructure/logging"
	"github.com/nerrad567/influx-collector/internal/sampler"
	"github.com/nerrad567/influx-collector/internal/transport"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/collector.yaml"

const metricsShutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting influx-collector",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	col, err := transport.NewCollector(ctx, cfg.Collector.DSN, log.Component("transport"),
		collector.WithLogger(log.Component("collector")),
		collector.WithRegisterer(reg),
	)
	if err != nil {
		return fmt.Errorf("creating collector: %w", err)
	}
	defer func() {
		log.Info("draining collector")
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if closeErr := col.Close(closeCtx); closeErr != nil {
			log.Error("error closing collector", "error", closeErr)
		}
	}()
	logDestination(log, cfg.Collector.DSN)

	if cfg.Sampler.Enabled {
		s := sampler.New(col, sampler.Config{
			Measurement: cfg.Sampler.Measurement,
			Interval:    cfg.GetSamplerInterval(),
			Tags:        cfg.Sampler.Tags,
		})
		s.Start()
		defer func() {
			log.Info("stopping sampler")
			s.Stop()
		}()
		log.Info("sampler started",
			"measurement", cfg.Sampler.Measurement,
			"interval", cfg.GetSamplerInterval(),
		)
	}

	if cfg.Metrics.Enabled {
		srv := newMetricsServer(cfg.Metrics, reg)
		go func() {
			if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				log.Error("metrics server failed", "error", serveErr)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
				log.Error("error stopping metrics server", "error", shutdownErr)
			}
		}()
		log.Info("metrics endpoint listening", "listen", cfg.Metrics.Listen, "path", cfg.Metrics.Path)
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. Metrics server
	// 2. Sampler
	// 3. Collector (final flush and drain)

	return nil
}

// getConfigPath returns the configuration file path.
//
// INFLUXCOLLECTOR_CONFIG wins. Without it the default path is used if it
// exists; otherwise configuration comes from defaults and environment only.
func getConfigPath() string {
	if path := os.Getenv("INFLUXCOLLECTOR_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// logDestination records where points go, with the password masked.
func logDestination(log *logging.Logger, uri string) {
	if uri == "" {
		log.Warn("no descriptor configured, points will be discarded")
		return
	}
	d, err := dsn.Parse(uri)
	if err != nil {
		return
	}
	log.Info("collector started",
		"dsn", d.Redacted(),
		"transport", d.Transport(),
		"flush_interval", d.FlushInterval,
		"instant_flush", d.InstantFlush,
		"auto_flush", d.AutoFlush,
	)
}

// newMetricsServer serves reg in the Prometheus exposition format.
func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
