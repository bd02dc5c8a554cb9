package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink is a destination for formatted log lines. Write receives one line
// without a trailing newline and appends its own framing.
type Sink interface {
	Write(line string) error
}

// WriterSink adapts any io.Writer (stdout, stderr, a test buffer) into a
// Sink. Writes are serialized so a sink can be shared between goroutines.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a Sink writing newline-terminated lines to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Write implements Sink.
func (s *WriterSink) Write(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// FileSink appends formatted lines to a log file.
type FileSink struct {
	mu sync.Mutex
	f  *os.File
}

// NewFileSink opens (or creates) path for appending.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &FileSink{f: f}, nil
}

// Write implements Sink.
func (s *FileSink) Write(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.f.WriteString(line + "\n")
	return err
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
