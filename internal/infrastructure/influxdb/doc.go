// Package influxdb provides the HTTP write transport for the collector.
//
// It wraps the official influxdb-client-go v2 library's blocking write API.
// Each Write is one POST of the whole batch; the collector owns batching,
// retries (there are none) and error reporting.
//
// # Compatibility
//
// Writes go to the v2 /api/v2/write endpoint. The minimum server is
// InfluxDB 1.8, the first 1.x release serving it; earlier 1.x servers
// only accept /write?db= and are not supported. Username and password become the "user:pass" token the 1.x
// compatibility layer expects, and database plus retention policy become
// the "db/rp" bucket name.
//
// # Usage
//
//	client := influxdb.New(influxdb.Config{
//	    URL:       "http://localhost:8086",
//	    Database:  "telegraf",
//	    Precision: time.Millisecond,
//	})
//	defer client.Close()
//
//	err := client.Write(ctx, points, metric.WriteOptions{Precision: time.Millisecond})
//
// # Precision
//
// The client fixes its timestamp precision at construction. A batch whose
// WriteOptions name a different precision is rejected with
// ErrPrecisionMismatch rather than written with the wrong unit.
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package influxdb
