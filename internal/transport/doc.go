// Package transport turns a connection descriptor into a running collector.
//
// It is the only package that knows every write transport:
//
//	http, https  → influxdb.Client (HTTP, fixed-length batches)
//	udp          → udp.Client (one datagram per MTU-bounded batch)
//	mqtt, mqtts  → mqtt.Client (one message per batch)
//
// NewCollector probes writers that support HealthCheck once at startup and
// logs the result; an unreachable destination is a warning, not an error.
// MQTT broker drops and reconnects are logged through the same Logger.
//
// An empty descriptor yields a no-op collector so callers can leave
// metrics unconfigured without nil checks.
package transport
