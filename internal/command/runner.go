package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/vk/gridcheck/internal/ctxlog"
	"github.com/vk/gridcheck/internal/logging"
	"github.com/vk/gridcheck/internal/retry"
	"github.com/vk/gridcheck/internal/validate"
)

// Output is what a successful operation reports back. Details are free-form
// key-value observations (exit code, status, measured values).
type Output struct {
	Summary string
	Details map[string]string
}

// Operation is the unit of work a command executes, classified per attempt
// by the retry package.
type Operation = retry.Operation[Output]

// BoundRule ties a validation rule to the named input it applies to.
type BoundRule struct {
	Input string
	Rule  validate.Rule
}

// Spec is everything needed to execute one named command. The caller owns
// policy and rules; the runner never mutates them.
type Spec struct {
	Name      string
	Inputs    map[string]string
	Rules     []BoundRule
	Policy    retry.Policy
	Operation Operation
}

// Runner executes command specs. It is not safe for concurrent use of a
// single Spec's operation; the host serializes or gives each goroutine its
// own spec.
type Runner struct {
	logger *logging.Logger
	newID  func() string
}

// NewRunner returns a Runner logging through the given logger.
func NewRunner(logger *logging.Logger) *Runner {
	return &Runner{logger: logger, newID: uuid.NewString}
}

// Execute validates every bound input, then drives the operation under the
// spec's retry policy. The first validation failure aborts before the
// operation is ever invoked and before any retry-related log is emitted.
func (r *Runner) Execute(ctx context.Context, spec Spec) (Output, error) {
	logger := r.logger.With(
		logging.F("command", spec.Name),
		logging.F("run_id", r.newID()),
	)

	for _, bound := range spec.Rules {
		value, ok := spec.Inputs[bound.Input]
		if !ok {
			err := fmt.Errorf("input %q is not set", bound.Input)
			logger.Error("command rejected", logging.F("input", bound.Input), logging.Err(err))
			return Output{}, &Error{Kind: KindInvalidInput, Command: spec.Name, Err: err}
		}
		if err := validate.Validate(value, bound.Rule); err != nil {
			logger.Error("command rejected", logging.F("input", bound.Input), logging.Err(err))
			return Output{}, &Error{
				Kind:    KindInvalidInput,
				Command: spec.Name,
				Err:     fmt.Errorf("input %q: %w", bound.Input, err),
			}
		}
	}

	logger.Info("command started")

	// Operations log through the context, tagged with this run's identity.
	ctx = ctxlog.WithLogger(ctx, logger)

	output, results, err := retry.Run(ctx, spec.Policy, spec.Operation)
	attempts := strconv.Itoa(len(results))

	switch {
	case err == nil:
		fields := []logging.Field{logging.F("attempts", attempts)}
		if output.Summary != "" {
			fields = append(fields, logging.F("result", output.Summary))
		}
		logger.Info("command completed", fields...)
		return output, nil

	case retry.IsCancelled(err):
		logger.Warn("command cancelled", logging.F("attempts", attempts))
		return Output{}, &Error{Kind: KindCancelled, Command: spec.Name, Err: err}

	case isExhausted(err):
		var exhausted *retry.ExhaustedError
		errors.As(err, &exhausted)
		logger.Error("command failed",
			logging.F("attempts", attempts),
			logging.Err(exhausted.LastErr),
		)
		return Output{}, &Error{Kind: KindExecutionFailed, Command: spec.Name, Err: err}

	default:
		// Fatal failures carry no attempt count.
		logger.Error("command failed", logging.Err(err))
		return Output{}, &Error{Kind: KindFatal, Command: spec.Name, Err: err}
	}
}

func isExhausted(err error) bool {
	var exhausted *retry.ExhaustedError
	return errors.As(err, &exhausted)
}
