package retry

import (
	"errors"
	"fmt"
)

// FatalError marks an operation failure as non-recoverable: the executor
// stops immediately without consuming the remaining attempt budget.
type FatalError struct {
	Err error
}

// Error implements the error interface.
func (e *FatalError) Error() string { return "fatal: " + e.Err.Error() }

// Unwrap exposes the underlying cause.
func (e *FatalError) Unwrap() error { return e.Err }

// Fatal wraps err as a fatal failure. A nil err returns nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err is classified fatal.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// Retryable wraps err as an explicitly transient failure. Unclassified
// errors are already treated as retryable, so this exists for operations
// that want to be explicit at classification boundaries.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// ExhaustedError is returned once the attempt budget is consumed. It
// carries the detail of the final retryable failure, not the first.
type ExhaustedError struct {
	Attempts int
	LastErr  error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry budget exhausted after %d attempts: %v", e.Attempts, e.LastErr)
}

// Unwrap exposes the final failure.
func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// CancelledError is returned when the context is done before an attempt or
// during a backoff delay. It is distinct from ExhaustedError: no further
// attempt was owed.
type CancelledError struct {
	Err error
}

// Error implements the error interface.
func (e *CancelledError) Error() string { return "cancelled: " + e.Err.Error() }

// Unwrap exposes the context error.
func (e *CancelledError) Unwrap() error { return e.Err }

// IsCancelled reports whether err stems from cancellation.
func IsCancelled(err error) bool {
	var ce *CancelledError
	return errors.As(err, &ce)
}
