package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcheck/internal/testutil"
)

// Test for: malformed HCL fails the run at startup, before anything executes.
func TestErrorHandling_InvalidHCLIsRejected(t *testing.T) {
	t.Parallel()

	mod := &testutil.RecorderModule{Kind: "scripted"}
	gridHCL := `
check "scripted" "broken" {
  arguments {
`

	result := testutil.RunGrid(t, map[string]string{"main.hcl": gridHCL}, mod)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "application startup panicked")
	assert.Contains(t, result.Err.Error(), "failed to parse")
	assert.Equal(t, 0, mod.Calls())
}

// Test for: a grid naming an unregistered check kind is rejected during the
// startup parity check.
func TestErrorHandling_UnknownKindFailsParityCheck(t *testing.T) {
	t.Parallel()

	mod := &testutil.RecorderModule{Kind: "scripted"}
	gridHCL := `
check "nonexistent" "orphan" {
  arguments {
    target = "x"
  }
}
`

	result := testutil.RunGrid(t, map[string]string{"main.hcl": gridHCL}, mod)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "unknown kind 'nonexistent'")
	assert.Contains(t, result.Err.Error(), "scripted", "the error should list the registered kinds")
}

// Test for: every startup problem is reported in one pass, not one at a time.
func TestErrorHandling_AllProblemsCollected(t *testing.T) {
	t.Parallel()

	mod := &testutil.RecorderModule{Kind: "scripted"}
	gridHCL := `
check "nonexistent" "orphan" {
  arguments {
    target = "x"
  }
}

check "scripted" "bad_policy" {
  arguments {
    target = "x"
  }

  retry {
    max_attempts = 0
  }
}

check "scripted" "bad_rule" {
  arguments {
    target = "x"
  }

  validate "undeclared" {
    kind    = "string_pattern"
    pattern = ".*"
  }
}
`

	result := testutil.RunGrid(t, map[string]string{"main.hcl": gridHCL}, mod)

	require.Error(t, result.Err)
	errStr := result.Err.Error()
	assert.Contains(t, errStr, "unknown kind 'nonexistent'")
	assert.Contains(t, errStr, "bad_policy")
	assert.Contains(t, errStr, "not declared in arguments")
	assert.Equal(t, 0, mod.Calls())
}
