package app

import (
	"fmt"
	"io"

	"github.com/vk/gridcheck/internal/logging"
)

// newLogger creates and configures a new logging.Logger instance. It does
// not touch any global state, allowing for isolated logger instances.
func newLogger(levelStr, formatStr, logFile string, outW io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}

	var formatter logging.Formatter
	if formatStr == "json" {
		formatter = logging.JSONFormatter{}
	} else {
		formatter = logging.TextFormatter{}
	}

	sinks := []logging.Sink{logging.NewWriterSink(outW)}
	if logFile != "" {
		fileSink, err := logging.NewFileSink(logFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, fileSink)
	}

	return logging.New(logging.Options{
		MinLevel:  level,
		Formatter: formatter,
		Sinks:     sinks,
	}), nil
}
