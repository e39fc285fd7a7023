// Package collector buffers measurement points in memory and dispatches them
// to a write transport in transport-sized batches.
//
// # Purpose
//
// Callers report points with Collect and never wait on the network. Points are
// queued per series and pushed to the backing store when the flush interval
// ticks, when Flush is called, or immediately in instant-flush mode.
//
// # Usage
//
//	c := collector.New(writer, collector.Config{
//	    AutoFlush:     true,
//	    FlushInterval: 5 * time.Second,
//	    Precision:     time.Millisecond,
//	    BatchPoints:   50,
//	}, collector.WithLogger(log))
//	defer c.Stop()
//
//	c.OnError(func(err error) { log.Error("metrics write failed", "error", err) })
//	c.Collect("requests", map[string]any{"count": 1}, map[string]string{"route": "/"})
//
// # Batching
//
// Each drained series is sent as a chain of batches, one write at a time. For
// size-bounded transports (datagrams) the batch length comes from ComputeCount
// over the encoded size of every pending point; otherwise a fixed number of
// points is sent per write. Different series are dispatched concurrently.
//
// # Completion Callbacks
//
// A FlushCallback passed to Flush fires once, on its own goroutine, when no
// write is in flight anywhere in the collector. It is not scoped to the flush
// that registered it: a callback may be satisfied by another flush finishing,
// and it also waits for unrelated flushes still in flight.
//
// # Error Handling
//
// Write failures never surface from Collect or Flush. Each failed batch is
// delivered once to every OnError observer as a *BatchError, and the rest of
// that series' points are dropped. Metrics are best-effort; there is no retry.
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package collector
