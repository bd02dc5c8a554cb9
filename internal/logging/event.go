package logging

import "time"

// Field is a single key-value pair attached to an event. Fields are kept in
// a slice rather than a map so that output order matches insertion order.
type Field struct {
	Key   string
	Value string
}

// F constructs a Field.
func F(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Err constructs the conventional "error" field. A nil error yields an
// empty value.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Event is an immutable log record. It is created by Logger.Emit and handed
// to each configured sink; nothing retains it afterwards.
type Event struct {
	Time    time.Time // always UTC, millisecond precision
	Level   Level
	Message string
	Fields  []Field
	Caller  string // "file.go:123", empty unless caller capture is enabled
}
