// Package metric defines the Point data model shared by the collector and its
// write transports.
//
// A Point is one measurement observation: a measurement name, optional tags,
// one or more field values and a timestamp. Points are immutable once built;
// NewPoint copies every map it is given and accessors hand out copies.
//
// # Coercion
//
// NewPoint never fails. A value that is not a field mapping is wrapped as a
// single "value" field, nil fields are dropped, and a numeric "time" field is
// lifted out of the field set and becomes the point timestamp, interpreted in
// the configured precision:
//
//	p := metric.NewPoint("series", map[string]any{"time": 1416512521, "foo": 34.0},
//	    nil, time.Now(), time.Second)
//	// p.Time() == time.Unix(1416512521, 0)
//
// # Encoding
//
// Points are encoded as InfluxDB line protocol through the influxdb-client-go
// write.Point model and the influxdata line-protocol encoder. The encoded byte
// length doubles as the size estimate used for datagram batch sizing.
package metric
