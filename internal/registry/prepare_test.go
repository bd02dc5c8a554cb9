package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcheck/internal/command"
	"github.com/vk/gridcheck/internal/config"
)

func noopBuilder(ctx context.Context, args map[string]string) (command.Operation, error) {
	return nil, nil
}

func int64p(v int64) *int64 { return &v }

func newTestRegistry() *Registry {
	r := New()
	r.RegisterBuilder("noop", noopBuilder)
	return r
}

func TestPrepareCompilesChecks(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Defaults: &config.RetrySpec{MaxAttempts: 4, InitialDelay: time.Second, BackoffMultiplier: 2.0},
		Checks: []*config.Check{
			{
				Kind:      "noop",
				Name:      "a",
				Arguments: map[string]string{"threshold": "10"},
				Validations: []*config.RuleSpec{
					{Input: "threshold", Kind: "integer_range", Min: int64p(0), Max: int64p(100)},
				},
			},
			{
				Kind:      "noop",
				Name:      "b",
				Arguments: map[string]string{},
				Retry:     &config.RetrySpec{MaxAttempts: 1, InitialDelay: 0, BackoffMultiplier: 1.0},
			},
		},
	}

	prepared, err := newTestRegistry().Prepare(context.Background(), model)
	require.NoError(t, err)
	require.Len(t, prepared, 2)

	assert.Equal(t, 4, prepared[0].Policy.MaxAttempts, "grid defaults apply when check has no retry block")
	require.Len(t, prepared[0].Rules, 1)
	assert.Equal(t, "threshold", prepared[0].Rules[0].Input)

	assert.Equal(t, 1, prepared[1].Policy.MaxAttempts, "check-level retry overrides defaults")
	assert.NotNil(t, prepared[1].Build)
}

func TestPrepareAppliesBuiltinDefaults(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Checks: []*config.Check{{Kind: "noop", Name: "bare", Arguments: map[string]string{}}},
	}

	prepared, err := newTestRegistry().Prepare(context.Background(), model)
	require.NoError(t, err)
	require.Len(t, prepared, 1)
	assert.Equal(t, 3, prepared[0].Policy.MaxAttempts)
	assert.Equal(t, time.Second, prepared[0].Policy.InitialDelay)
}

func TestPrepareCollectsAllProblems(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Checks: []*config.Check{
			{Kind: "missing_kind", Name: "a", Arguments: map[string]string{}},
			{
				Kind:      "noop",
				Name:      "b",
				Arguments: map[string]string{},
				Validations: []*config.RuleSpec{
					{Input: "ghost", Kind: "integer_range", Min: int64p(0), Max: int64p(1)},
				},
			},
			{
				Kind:      "noop",
				Name:      "c",
				Arguments: map[string]string{},
				Retry:     &config.RetrySpec{MaxAttempts: 0, BackoffMultiplier: 2.0},
			},
		},
	}

	_, err := newTestRegistry().Prepare(context.Background(), model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind 'missing_kind'")
	assert.Contains(t, err.Error(), "references input 'ghost'")
	assert.Contains(t, err.Error(), "max_attempts")
}

func TestPrepareRejectsBadRules(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		rule *config.RuleSpec
	}{
		{name: "unknown kind", rule: &config.RuleSpec{Input: "x", Kind: "regex"}},
		{name: "pattern without expression", rule: &config.RuleSpec{Input: "x", Kind: "string_pattern"}},
		{name: "invalid expression", rule: &config.RuleSpec{Input: "x", Kind: "string_pattern", Pattern: "[unclosed"}},
		{name: "range without bounds", rule: &config.RuleSpec{Input: "x", Kind: "integer_range"}},
		{name: "inverted range", rule: &config.RuleSpec{Input: "x", Kind: "integer_range", Min: int64p(5), Max: int64p(1)}},
		{name: "bad path type", rule: &config.RuleSpec{Input: "x", Kind: "path_existence", PathType: "socket"}},
		{name: "bad permission", rule: &config.RuleSpec{Input: "x", Kind: "path_existence", Permission: "rwz"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model := &config.Model{
				Checks: []*config.Check{{
					Kind:        "noop",
					Name:        "bad",
					Arguments:   map[string]string{"x": "1"},
					Validations: []*config.RuleSpec{tc.rule},
				}},
			}
			_, err := newTestRegistry().Prepare(context.Background(), model)
			assert.Error(t, err)
		})
	}
}

func TestRegisterBuilderPanicsOnDuplicate(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterBuilder("dup", noopBuilder)
	assert.Panics(t, func() { r.RegisterBuilder("dup", noopBuilder) })
}
