package schema

import "github.com/hashicorp/hcl/v2"

// Grid represents the top-level structure of a user's grid file.
type Grid struct {
	Defaults *Defaults `hcl:"defaults,block"`
	Checks   []*Check  `hcl:"check,block"`
	Body     hcl.Body  `hcl:",remain"`
}

// Defaults carries grid-wide settings applied to checks that do not
// override them.
type Defaults struct {
	Retry *Retry `hcl:"retry,block"`
}

// Check represents a `check` block: a runnable instance of a registered
// check kind.
type Check struct {
	Kind        string        `hcl:"kind,label"`
	Name        string        `hcl:"instance_name,label"`
	Arguments   *Args         `hcl:"arguments,block"`
	Retry       *Retry        `hcl:"retry,block"`
	Validations []*Validation `hcl:"validate,block"`
}

// Args represents the content of the 'arguments' block within a check. The
// attribute set is free-form; the registered builder decides what it needs.
type Args struct {
	Body hcl.Body `hcl:",remain"`
}

// Retry represents a `retry` block. Durations are strings in Go duration
// syntax ("500ms", "3s"); omitted fields take the built-in defaults.
type Retry struct {
	MaxAttempts       int      `hcl:"max_attempts"`
	InitialDelay      string   `hcl:"initial_delay,optional"`
	BackoffMultiplier *float64 `hcl:"backoff_multiplier,optional"`
	MaxDelay          string   `hcl:"max_delay,optional"`
}

// Validation represents a `validate` block bound to one argument of the
// enclosing check.
type Validation struct {
	Input      string `hcl:"input,label"`
	Kind       string `hcl:"kind"`
	Pattern    string `hcl:"pattern,optional"`
	Min        *int64 `hcl:"min,optional"`
	Max        *int64 `hcl:"max,optional"`
	PathType   string `hcl:"path_type,optional"`
	Permission string `hcl:"permission,optional"`
}
