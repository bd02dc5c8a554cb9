package logging

import (
	"encoding/json"
	"strconv"
	"strings"
)

// timeLayout is RFC3339 with fixed millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Formatter renders an Event into a single output line, without a trailing
// newline. Implementations must preserve field order.
type Formatter interface {
	Format(e Event) string
}

// TextFormatter renders events as a human-readable line:
//
//	2025-01-02T15:04:05.000Z [INFO] command started name=disk_space
type TextFormatter struct{}

// Format implements Formatter.
func (TextFormatter) Format(e Event) string {
	var b strings.Builder
	b.WriteString(e.Time.Format(timeLayout))
	b.WriteString(" [")
	b.WriteString(e.Level.String())
	b.WriteString("] ")
	b.WriteString(e.Message)
	for _, f := range e.Fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(quoteIfNeeded(f.Value))
	}
	if e.Caller != "" {
		b.WriteString(" caller=")
		b.WriteString(e.Caller)
	}
	return b.String()
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// JSONFormatter renders events as a single JSON object per line. The object
// is assembled by hand so that field order survives serialization.
type JSONFormatter struct{}

// Format implements Formatter.
func (JSONFormatter) Format(e Event) string {
	var b strings.Builder
	b.WriteString(`{"time":`)
	b.Write(jsonString(e.Time.Format(timeLayout)))
	b.WriteString(`,"level":`)
	b.Write(jsonString(e.Level.String()))
	b.WriteString(`,"message":`)
	b.Write(jsonString(e.Message))
	if e.Caller != "" {
		b.WriteString(`,"caller":`)
		b.Write(jsonString(e.Caller))
	}
	for _, f := range e.Fields {
		b.WriteByte(',')
		b.Write(jsonString(f.Key))
		b.WriteByte(':')
		b.Write(jsonString(f.Value))
	}
	b.WriteByte('}')
	return b.String()
}

func jsonString(s string) []byte {
	// Strings never fail to marshal.
	out, _ := json.Marshal(s)
	return out
}
