package metric

import (
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strings"
	"time"
)

// timeField is the field key that carries an explicit timestamp.
const timeField = "time"

// valueField is the field key used when a bare value is collected.
const valueField = "value"

// WriteOptions are passed to every write call alongside a batch.
type WriteOptions struct {
	// Precision is the unit timestamps are truncated to on the wire.
	Precision time.Duration
}

// Point is a single immutable measurement observation.
type Point struct {
	measurement string
	tags        map[string]string
	fields      map[string]any
	time        time.Time
}

// NewPoint builds a Point from a measurement name and a collected value.
//
// Parameters:
//   - measurement: The measurement (series) name
//   - value: A field mapping, or a bare primitive stored as the "value" field
//   - tags: Optional tag set (nil is fine)
//   - now: Timestamp used when the fields carry no "time" entry
//   - precision: Unit of an explicit "time" field (zero means nanoseconds)
//
// Returns:
//   - Point: The normalised point (never an error; see package docs)
func NewPoint(measurement string, value any, tags map[string]string, now time.Time, precision time.Duration) Point {
	p := Point{
		measurement: measurement,
		fields:      coerceFields(value),
		time:        now,
	}
	if len(tags) > 0 {
		p.tags = maps.Clone(tags)
	}

	if raw, ok := p.fields[timeField]; ok {
		if ts, ok := toInt64(raw); ok {
			if precision <= 0 {
				precision = time.Nanosecond
			}
			p.time = time.Unix(0, ts*int64(precision))
			delete(p.fields, timeField)
		}
	}

	return p
}

// coerceFields normalises a collected value into a field map.
func coerceFields(value any) map[string]any {
	fields := make(map[string]any)

	switch v := value.(type) {
	case map[string]any:
		for k, fv := range v {
			fields[k] = fv
		}
	case map[string]float64:
		for k, fv := range v {
			fields[k] = fv
		}
	case map[string]int:
		for k, fv := range v {
			fields[k] = fv
		}
	case map[string]int64:
		for k, fv := range v {
			fields[k] = fv
		}
	case map[string]string:
		for k, fv := range v {
			fields[k] = fv
		}
	case map[string]bool:
		for k, fv := range v {
			fields[k] = fv
		}
	default:
		fields[valueField] = value
	}

	for k, fv := range fields {
		if fv == nil {
			delete(fields, k)
		}
	}
	return fields
}

// toInt64 converts an integer or float field value to int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// Measurement returns the measurement name.
func (p Point) Measurement() string { return p.measurement }

// Tags returns a copy of the tag set (nil when the point has no tags).
func (p Point) Tags() map[string]string { return maps.Clone(p.tags) }

// Fields returns a copy of the field set.
func (p Point) Fields() map[string]any { return maps.Clone(p.fields) }

// Time returns the point timestamp.
func (p Point) Time() time.Time { return p.time }

// HasFields reports whether the point carries at least one field.
// Line protocol cannot express a point without fields.
func (p Point) HasFields() bool { return len(p.fields) > 0 }

// Equal reports whether two points carry the same measurement, tags, fields
// and timestamp.
func (p Point) Equal(o Point) bool {
	if p.measurement != o.measurement || !p.time.Equal(o.time) {
		return false
	}
	if !maps.Equal(p.tags, o.tags) {
		return false
	}
	return maps.EqualFunc(p.fields, o.fields, func(a, b any) bool {
		return reflect.DeepEqual(a, b)
	})
}

// String renders the point for logs and test failures.
func (p Point) String() string {
	var b strings.Builder
	b.WriteString(p.measurement)
	for _, k := range sortedKeys(p.tags) {
		fmt.Fprintf(&b, ",%s=%s", k, p.tags[k])
	}
	b.WriteByte(' ')
	for i, k := range sortedKeys(p.fields) {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%v", k, p.fields[k])
	}
	if !p.time.IsZero() {
		fmt.Fprintf(&b, " %d", p.time.UnixNano())
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
