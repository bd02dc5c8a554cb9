package retry

import (
	"context"
	"fmt"
	"time"
)

// Operation is the unit of work the executor drives. Attempt performs one
// try and classifies any failure with Fatal or Retryable; an unwrapped
// error counts as retryable. Cancellation is signalled through ctx.
type Operation[T any] interface {
	Attempt(ctx context.Context) (T, error)
}

// OperationFunc adapts a plain function to the Operation interface.
type OperationFunc[T any] func(ctx context.Context) (T, error)

// Attempt implements Operation.
func (f OperationFunc[T]) Attempt(ctx context.Context) (T, error) {
	return f(ctx)
}

// Outcome classifies the result of a single attempt.
type Outcome int8

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomeFatal
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable_failure"
	case OutcomeFatal:
		return "fatal_failure"
	default:
		return fmt.Sprintf("outcome(%d)", int8(o))
	}
}

// AttemptResult records one attempt for reporting. Err is nil on success.
type AttemptResult struct {
	Attempt int
	Outcome Outcome
	Err     error
}

// sleep suspends until the delay elapses or the context is done. It is a
// package variable so tests can observe requested delays deterministically.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run invokes op under policy until it succeeds, fails fatally, the attempt
// budget runs out, or ctx is cancelled. It returns the success value, the
// per-attempt record, and one of nil, *FatalError (as classified by the
// operation), *ExhaustedError, or *CancelledError.
//
// Attempts execute strictly sequentially. No delay is incurred after the
// final attempt, and a fatal failure never consumes remaining budget.
func Run[T any](ctx context.Context, policy Policy, op Operation[T]) (T, []AttemptResult, error) {
	var zero T
	if policy.MaxAttempts < 1 {
		return zero, nil, fmt.Errorf("invalid policy: max_attempts %d", policy.MaxAttempts)
	}

	results := make([]AttemptResult, 0, policy.MaxAttempts)
	delay := policy.InitialDelay
	if policy.MaxDelay > 0 && delay > policy.MaxDelay {
		delay = policy.MaxDelay
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, results, &CancelledError{Err: err}
		}

		value, err := op.Attempt(ctx)
		if err == nil {
			results = append(results, AttemptResult{Attempt: attempt, Outcome: OutcomeSuccess})
			return value, results, nil
		}

		if IsFatal(err) {
			results = append(results, AttemptResult{Attempt: attempt, Outcome: OutcomeFatal, Err: err})
			return zero, results, err
		}

		results = append(results, AttemptResult{Attempt: attempt, Outcome: OutcomeRetryable, Err: err})
		if attempt == policy.MaxAttempts {
			return zero, results, &ExhaustedError{Attempts: attempt, LastErr: err}
		}

		if serr := sleep(ctx, delay); serr != nil {
			return zero, results, &CancelledError{Err: serr}
		}
		delay = policy.next(delay)
	}
}
