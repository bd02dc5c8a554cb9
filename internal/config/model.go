package config

import "time"

// Model is the unified representation of the entire grid configuration.
type Model struct {
	// Defaults applies to every check that does not carry its own retry
	// block. Nil means the built-in defaults.
	Defaults *RetrySpec
	Checks   []*Check
}

// Check is the format-agnostic representation of a `check` block.
type Check struct {
	// Kind names the registered operation builder ("execcmd", "httpprobe", ...).
	Kind string
	// Name is the user-chosen instance name, unique within a grid.
	Name string
	// Arguments are the check's inputs, already evaluated to plain strings.
	Arguments map[string]string
	// Retry overrides the grid defaults when non-nil.
	Retry *RetrySpec
	// Validations are applied to Arguments before the check ever runs.
	Validations []*RuleSpec
}

// RetrySpec carries a retry policy as loaded from configuration, before it
// is compiled into a retry.Policy at startup validation.
type RetrySpec struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	BackoffMultiplier float64
	MaxDelay          time.Duration
}

// RuleSpec carries one validation rule as loaded from configuration.
// Which parameter fields are meaningful depends on Kind.
type RuleSpec struct {
	// Input is the argument name the rule applies to.
	Input string
	// Kind is one of "string_pattern", "integer_range", "path_existence".
	Kind string

	Pattern string

	Min *int64
	Max *int64

	// PathType is "file", "dir", or "any" (default).
	PathType string
	// Permission is a subset of "rwx".
	Permission string
}
