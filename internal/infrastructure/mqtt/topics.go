package mqtt

import (
	"fmt"
	"strings"
)

// maxTopicLength is the MQTT limit on an encoded topic name.
const maxTopicLength = 65535

// Topics builds publish topics under a base topic.
//
//	topics := mqtt.Topics{Base: "metrics/telegraf"}
//	topics.Series("cpu") // "metrics/telegraf/cpu"
type Topics struct {
	Base string
}

// Batch returns the topic every batch is published to when series
// topics are off.
func (t Topics) Batch() string {
	return t.Base
}

// Series returns the per-measurement topic.
//
// Example: metrics/telegraf/cpu
func (t Topics) Series(measurement string) string {
	return t.Base + "/" + escapeLevel(measurement)
}

// escapeLevel keeps a measurement name inside a single topic level.
func escapeLevel(s string) string {
	return strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(s)
}

// ValidateTopic checks that topic may be published to.
//
// Publish topics must be non-empty, must not contain wildcards or NUL,
// and must fit the MQTT length limit.
func ValidateTopic(topic string) error {
	switch {
	case topic == "":
		return fmt.Errorf("%w: empty", ErrInvalidTopic)
	case len(topic) > maxTopicLength:
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidTopic, len(topic), maxTopicLength)
	case strings.ContainsAny(topic, "+#"):
		return fmt.Errorf("%w: wildcards not allowed in %q", ErrInvalidTopic, topic)
	case strings.ContainsRune(topic, 0):
		return fmt.Errorf("%w: contains NUL", ErrInvalidTopic)
	}
	return nil
}
