package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcheck/internal/testutil"
)

// Test for: a validation failure rejects the check before its operation is
// ever invoked.
func TestCoreExecution_ValidationAbortsBeforeExecution(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	mod := &testutil.RecorderModule{Kind: "scripted"}
	gridHCL := `
check "scripted" "guarded" {
  arguments {
    threshold = "not-a-number"
  }

  validate "threshold" {
    kind = "integer_range"
    min  = 0
    max  = 100
  }
}
`

	// --- Act ---
	result := testutil.RunGrid(t, map[string]string{"main.hcl": gridHCL}, mod)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.Equal(t, 0, mod.Calls(), "a rejected check must never execute")
	assert.Contains(t, result.LogOutput, "command rejected")
	assert.NotContains(t, result.LogOutput, "command started")
}

// Test for: a passing validation lets the check through untouched.
func TestCoreExecution_ValidationPasses(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	mod := &testutil.RecorderModule{Kind: "scripted"}
	gridHCL := `
check "scripted" "guarded" {
  arguments {
    threshold = "85"
    name      = "db-primary"
  }

  validate "threshold" {
    kind = "integer_range"
    min  = 0
    max  = 100
  }

  validate "name" {
    kind    = "string_pattern"
    pattern = "[a-z][a-z0-9-]*"
  }
}
`

	// --- Act ---
	result := testutil.RunGrid(t, map[string]string{"main.hcl": gridHCL}, mod)

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, 1, mod.Calls())
	assert.Contains(t, result.LogOutput, "command completed")
}
