package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/gridcheck/internal/command"
	"github.com/vk/gridcheck/internal/registry"
	"github.com/vk/gridcheck/internal/retry"
)

// RecorderModule registers a scriptable check kind for tests. Every attempt
// is counted; attempts fail with a retryable error until
// FailuresBeforeSuccess is exhausted. When Err is set it is returned on
// every attempt instead.
type RecorderModule struct {
	Kind                  string
	FailuresBeforeSuccess int
	Err                   error

	mu    sync.Mutex
	calls int
}

// Calls reports how many attempts have run across all checks of this kind.
func (m *RecorderModule) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Register registers the scripted builder with the engine.
func (m *RecorderModule) Register(r *registry.Registry) {
	r.RegisterBuilder(m.Kind, func(ctx context.Context, args map[string]string) (command.Operation, error) {
		return retry.OperationFunc[command.Output](func(ctx context.Context) (command.Output, error) {
			m.mu.Lock()
			m.calls++
			n := m.calls
			m.mu.Unlock()

			if m.Err != nil {
				return command.Output{}, m.Err
			}
			if n <= m.FailuresBeforeSuccess {
				return command.Output{}, retry.Retryable(fmt.Errorf("scripted failure %d", n))
			}
			return command.Output{Summary: "ok"}, nil
		}), nil
	})
}
