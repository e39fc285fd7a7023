package dsn

import "errors"

// Sentinel errors for descriptor parsing.
var (
	// ErrInvalidDescriptor indicates the descriptor could not be parsed.
	ErrInvalidDescriptor = errors.New("dsn: invalid descriptor")

	// ErrUnsupportedScheme indicates the descriptor names an unknown transport.
	ErrUnsupportedScheme = errors.New("dsn: unsupported scheme")
)
