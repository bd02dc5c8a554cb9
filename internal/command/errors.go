package command

import "fmt"

// ErrorKind is the outward-facing classification of a command failure. It
// is the only error surface a caller of this package needs to branch on.
type ErrorKind int

const (
	// KindInvalidInput: an input failed validation; the operation was never
	// invoked.
	KindInvalidInput ErrorKind = iota
	// KindExecutionFailed: the retry budget was exhausted.
	KindExecutionFailed
	// KindFatal: the operation signalled a non-recoverable failure.
	KindFatal
	// KindCancelled: the context was cancelled before completion.
	KindCancelled
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindExecutionFailed:
		return "execution_failed"
	case KindFatal:
		return "fatal"
	case KindCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the union error type returned by Runner.Execute.
type Error struct {
	Kind    ErrorKind
	Command string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("command %q %s: %v", e.Command, e.Kind, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }
