package influxdb

import "errors"

// Sentinel errors for InfluxDB operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, influxdb.ErrNotConnected) {
//	    // Handle closed client
//	}
var (
	// ErrNotConnected indicates the client has been closed.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the server did not answer a ping.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrWriteFailed indicates the server rejected or never received a batch.
	ErrWriteFailed = errors.New("influxdb: write failed")

	// ErrPrecisionMismatch indicates a batch asked for a precision other
	// than the one the client was built with.
	ErrPrecisionMismatch = errors.New("influxdb: precision mismatch")
)
