package registry

import (
	"context"
	"sort"

	"github.com/vk/gridcheck/internal/command"
)

// Builder constructs a ready-to-run operation from a check's evaluated
// arguments. Builders run after input validation has passed; they return an
// error only for structural problems (a missing required argument, an
// unparseable option).
type Builder func(ctx context.Context, args map[string]string) (command.Operation, error)

// Module is the interface all check modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the check-kind builders for a single application instance.
type Registry struct {
	builders map[string]Builder
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// RegisterBuilder registers the builder for a check kind. Registering the
// same kind twice is a programmer error and panics.
func (r *Registry) RegisterBuilder(kind string, b Builder) {
	if _, dup := r.builders[kind]; dup {
		panic("registry: duplicate builder for kind " + kind)
	}
	r.builders[kind] = b
}

// Builder looks up the builder for a check kind.
func (r *Registry) Builder(kind string) (Builder, bool) {
	b, ok := r.builders[kind]
	return b, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.builders))
	for kind := range r.builders {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
