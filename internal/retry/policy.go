package retry

import (
	"fmt"
	"time"
)

// Policy describes how often and with what spacing an operation is
// re-attempted. Construct with NewPolicy, which rejects nonsense values at
// construction time rather than at first use.
type Policy struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	BackoffMultiplier float64
	// MaxDelay caps the computed delay. Zero means uncapped.
	MaxDelay time.Duration
}

// NewPolicy validates and returns a Policy.
func NewPolicy(maxAttempts int, initialDelay time.Duration, multiplier float64, maxDelay time.Duration) (Policy, error) {
	if maxAttempts < 1 {
		return Policy{}, fmt.Errorf("max_attempts must be at least 1, got %d", maxAttempts)
	}
	if initialDelay < 0 {
		return Policy{}, fmt.Errorf("initial_delay must not be negative, got %s", initialDelay)
	}
	if multiplier < 1.0 {
		return Policy{}, fmt.Errorf("backoff_multiplier must be at least 1.0, got %g", multiplier)
	}
	if maxDelay < 0 {
		return Policy{}, fmt.Errorf("max_delay must not be negative, got %s", maxDelay)
	}
	return Policy{
		MaxAttempts:       maxAttempts,
		InitialDelay:      initialDelay,
		BackoffMultiplier: multiplier,
		MaxDelay:          maxDelay,
	}, nil
}

// next advances the delay after a retryable failure, applying the multiplier
// and the cap.
func (p Policy) next(delay time.Duration) time.Duration {
	scaled := time.Duration(float64(delay) * p.BackoffMultiplier)
	if scaled < delay {
		// float overflow
		scaled = p.MaxDelay
	}
	if p.MaxDelay > 0 && scaled > p.MaxDelay {
		scaled = p.MaxDelay
	}
	return scaled
}

// Delays returns the inter-attempt delay sequence the policy would produce:
// element i is the pause before attempt i+2. The slice has MaxAttempts-1
// elements. Useful for startup logging and for tests.
func (p Policy) Delays() []time.Duration {
	if p.MaxAttempts <= 1 {
		return nil
	}
	out := make([]time.Duration, 0, p.MaxAttempts-1)
	delay := p.InitialDelay
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	for i := 0; i < p.MaxAttempts-1; i++ {
		out = append(out, delay)
		delay = p.next(delay)
	}
	return out
}
