package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads every configuration file reachable from the given paths
	// and translates the result into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
