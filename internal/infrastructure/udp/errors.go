package udp

import "errors"

// Sentinel errors for UDP writes.
var (
	// ErrWriteFailed indicates the datagram could not be sent.
	ErrWriteFailed = errors.New("udp: write failed")

	// ErrPayloadTooLarge indicates an encoded batch exceeds MaxPayload.
	ErrPayloadTooLarge = errors.New("udp: payload too large")

	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("udp: client closed")
)
