package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Options configures a Logger instance. The zero value is usable: INFO
// minimum level, text formatting, a single stderr sink.
type Options struct {
	// MinLevel is the lowest level that reaches any sink. Events below it
	// are dropped before formatting.
	MinLevel Level

	// Formatter renders events. Defaults to TextFormatter.
	Formatter Formatter

	// Sinks receive every emitted event. Defaults to a stderr WriterSink.
	Sinks []Sink

	// Fallback receives a diagnostic line when a sink write fails. Defaults
	// to stderr. A failing sink never blocks delivery to the others.
	Fallback io.Writer

	// ExitFunc is invoked with a non-zero status after a FATAL event has
	// been delivered to all sinks. Defaults to os.Exit. Hosts that need
	// non-terminating FATAL semantics may substitute a no-op.
	ExitFunc func(code int)

	// WithCaller enables capture of the emit call site.
	WithCaller bool
}

// Logger emits structured events to its configured sinks. A Logger does not
// set any process-global state; instances are passed explicitly (usually via
// ctxlog) to collaborators.
type Logger struct {
	minLevel   Level
	formatter  Formatter
	sinks      []Sink
	fallback   io.Writer
	exitFunc   func(int)
	withCaller bool
	now        func() time.Time
	fields     []Field
}

// New creates a Logger from opts, applying defaults for unset members.
func New(opts Options) *Logger {
	l := &Logger{
		minLevel:   opts.MinLevel,
		formatter:  opts.Formatter,
		sinks:      opts.Sinks,
		fallback:   opts.Fallback,
		exitFunc:   opts.ExitFunc,
		withCaller: opts.WithCaller,
		now:        time.Now,
	}
	if l.formatter == nil {
		l.formatter = TextFormatter{}
	}
	if len(l.sinks) == 0 {
		l.sinks = []Sink{NewWriterSink(os.Stderr)}
	}
	if l.fallback == nil {
		l.fallback = os.Stderr
	}
	if l.exitFunc == nil {
		l.exitFunc = os.Exit
	}
	return l
}

// With returns a derived Logger whose events carry the given fields before
// any per-call fields. The receiver is not modified.
func (l *Logger) With(fields ...Field) *Logger {
	child := *l
	child.fields = append(append([]Field{}, l.fields...), fields...)
	return &child
}

// Emit delivers a single event to every sink, provided level clears the
// minimum. A FATAL event additionally terminates the process once all sinks
// have been attempted.
func (l *Logger) Emit(level Level, msg string, fields ...Field) {
	l.emit(level, msg, fields)
}

func (l *Logger) emit(level Level, msg string, fields []Field) {
	if level < l.minLevel {
		return
	}

	e := Event{
		Time:    l.now().UTC().Truncate(time.Millisecond),
		Level:   level,
		Message: msg,
	}
	if n := len(l.fields) + len(fields); n > 0 {
		e.Fields = make([]Field, 0, n)
		e.Fields = append(e.Fields, l.fields...)
		e.Fields = append(e.Fields, fields...)
	}
	if l.withCaller {
		// Skip emit, its exported wrapper, and the runtime.Caller frame.
		e.Caller = callerLabel(3)
	}

	line := l.formatter.Format(e)
	for _, sink := range l.sinks {
		if err := sink.Write(line); err != nil {
			fmt.Fprintf(l.fallback, "logging: sink write failed: %v\n", err)
		}
	}

	if level == LevelFatal {
		l.exitFunc(1)
	}
}

// Debug emits a DEBUG event.
func (l *Logger) Debug(msg string, fields ...Field) { l.emit(LevelDebug, msg, fields) }

// Info emits an INFO event.
func (l *Logger) Info(msg string, fields ...Field) { l.emit(LevelInfo, msg, fields) }

// Warn emits a WARN event.
func (l *Logger) Warn(msg string, fields ...Field) { l.emit(LevelWarn, msg, fields) }

// Error emits an ERROR event.
func (l *Logger) Error(msg string, fields ...Field) { l.emit(LevelError, msg, fields) }

// Fatal emits a FATAL event and then terminates via the configured exit
// function. It is the only level with a side effect beyond logging.
func (l *Logger) Fatal(msg string, fields ...Field) { l.emit(LevelFatal, msg, fields) }

func callerLabel(depth int) string {
	_, file, line, ok := runtime.Caller(depth)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
