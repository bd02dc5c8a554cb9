package sysinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcheck/internal/ctxlog"
	"github.com/vk/gridcheck/internal/logging"
	"github.com/vk/gridcheck/internal/retry"
)

func testContext() context.Context {
	logger := logging.New(logging.Options{MinLevel: logging.LevelError})
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestBuildValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args map[string]string
	}{
		{name: "missing resource", args: map[string]string{"max_used_percent": "90"}},
		{name: "unknown resource", args: map[string]string{"resource": "gpu", "max_used_percent": "90"}},
		{name: "missing threshold", args: map[string]string{"resource": "disk"}},
		{name: "threshold not a number", args: map[string]string{"resource": "disk", "max_used_percent": "lots"}},
		{name: "threshold above 100", args: map[string]string{"resource": "disk", "max_used_percent": "150"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := build(testContext(), tc.args)
			assert.Error(t, err)
		})
	}
}

func TestDiskUsageUnderGenerousThreshold(t *testing.T) {
	t.Parallel()

	op, err := build(testContext(), map[string]string{
		"resource":         "disk",
		"path":             "/",
		"max_used_percent": "100",
	})
	require.NoError(t, err)

	out, err := op.Attempt(testContext())
	require.NoError(t, err)
	assert.Contains(t, out.Details, "used_percent")
}

func TestMemoryOverImpossibleThresholdIsRetryable(t *testing.T) {
	t.Parallel()

	op, err := build(testContext(), map[string]string{
		"resource":         "memory",
		"max_used_percent": "0",
	})
	require.NoError(t, err)

	// Any live system uses more than 0% memory.
	_, err = op.Attempt(testContext())
	require.Error(t, err)
	assert.False(t, retry.IsFatal(err))
	assert.Contains(t, err.Error(), "exceeds threshold")
}

func TestMissingMountIsFatal(t *testing.T) {
	t.Parallel()

	op, err := build(testContext(), map[string]string{
		"resource":         "disk",
		"path":             "/definitely/not/mounted",
		"max_used_percent": "90",
	})
	require.NoError(t, err)

	_, err = op.Attempt(testContext())
	require.Error(t, err)
	assert.True(t, retry.IsFatal(err))
}
