// Package logging builds the collector daemon's slog logger.
//
// Entries carry service and version fields. Subsystems derive their own
// logger with Component, which adds a component field ("collector" or
// "transport"), so a JSON log can be filtered per subsystem.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	log := logging.New(cfg.Logging, version)
//	col, err := transport.NewCollector(ctx, cfg.Collector.DSN, log.Component("transport"),
//	    collector.WithLogger(log.Component("collector")))
//
// Descriptors are logged through dsn.Descriptor.Redacted, never raw.
package logging
