// Package sampler reports the collector process's own Go runtime
// statistics as points.
//
// Every interval a Sampler reads runtime.MemStats and the goroutine count
// and collects one point into its Reporter (normally the collector
// itself). Event counters (mallocs, frees, GC runs, cgo calls) are
// reported as deltas since the previous sample; gauges are reported as
// current values.
package sampler
