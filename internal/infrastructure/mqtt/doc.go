// Package mqtt provides the MQTT write transport for the collector.
//
// Each batch is encoded as InfluxDB line protocol and published as one
// message, so a Telegraf mqtt_consumer (data_format = "influx") or any
// other line-protocol subscriber can ingest it.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS guarantees and a bounded acknowledgement wait
//   - Optional retained online/offline status with Last Will and Testament
//   - Per-measurement topics (Topic/<measurement>) when SeriesTopics is set
//
// # Security Considerations
//
//   - Use TLS (mqtts://) for anything leaving the host
//   - Credentials are validated against broker ACL
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(mqtt.Config{
//	    Host:  "127.0.0.1",
//	    Port:  1883,
//	    Topic: "metrics/telegraf",
//	    QoS:   1,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Write(ctx, points, metric.WriteOptions{Precision: time.Millisecond})
package mqtt
