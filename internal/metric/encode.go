package metric

import (
	"bytes"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	lp "github.com/influxdata/line-protocol"
)

// WritePoint converts p to the influxdb-client-go point model.
func (p Point) WritePoint() *write.Point {
	return write.NewPoint(p.measurement, p.tags, p.fields, p.time)
}

// Encode renders points as newline-terminated line protocol.
//
// Parameters:
//   - points: Points to encode, in order
//   - precision: Timestamp unit (zero means nanoseconds)
//
// Returns:
//   - []byte: One line per point
//   - error: If any point cannot be expressed in line protocol
func Encode(points []Point, precision time.Duration) ([]byte, error) {
	var buf bytes.Buffer
	enc := newEncoder(&buf, precision)

	for _, p := range points {
		if _, err := enc.Encode(p.WritePoint()); err != nil {
			return nil, fmt.Errorf("encoding point %q: %w", p.measurement, err)
		}
	}
	return buf.Bytes(), nil
}

// Size returns the encoded line-protocol length of p in bytes.
//
// It is an estimate of the bytes the point occupies in a datagram, not the
// exact wire envelope. A point that cannot be encoded reports zero.
func (p Point) Size(precision time.Duration) int {
	var buf bytes.Buffer
	n, err := newEncoder(&buf, precision).Encode(p.WritePoint())
	if err != nil {
		return 0
	}
	return n
}

func newEncoder(buf *bytes.Buffer, precision time.Duration) *lp.Encoder {
	enc := lp.NewEncoder(buf)
	enc.SetFieldTypeSupport(lp.UintSupport)
	enc.FailOnFieldErr(true)
	if precision > 0 {
		enc.SetPrecision(precision)
	}
	return enc
}
