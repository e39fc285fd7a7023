// Package udp provides the datagram write transport for the collector.
//
// Each batch is encoded as line protocol and sent as exactly one datagram
// to an InfluxDB (or Telegraf) UDP listener. The collector cuts batches to
// the descriptor's MTU, so a batch normally fits; a payload over the
// protocol's hard limit is refused with ErrPayloadTooLarge.
//
// UDP gives no delivery acknowledgement. Write succeeds once the kernel
// accepts the datagram.
package udp
