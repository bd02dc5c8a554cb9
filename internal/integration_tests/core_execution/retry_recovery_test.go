package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcheck/internal/testutil"
)

// Test for: a check that fails transiently recovers on a later attempt and
// the run still succeeds.
func TestCoreExecution_RetryRecovers(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Fails twice, succeeds on the third attempt.
	mod := &testutil.RecorderModule{Kind: "scripted", FailuresBeforeSuccess: 2}
	gridHCL := `
check "scripted" "flaky" {
  arguments {
    target = "anything"
  }

  retry {
    max_attempts  = 5
    initial_delay = "1ms"
  }
}
`

	// --- Act ---
	result := testutil.RunGrid(t, map[string]string{"main.hcl": gridHCL}, mod)

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, 3, mod.Calls())
	assert.Contains(t, result.LogOutput, "command completed")
	assert.Contains(t, result.LogOutput, "attempts=3")
}

// Test for: a persistently failing check exhausts its retry budget and the
// run reports the failure.
func TestCoreExecution_RetryExhaustion(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	mod := &testutil.RecorderModule{Kind: "scripted", FailuresBeforeSuccess: 99}
	gridHCL := `
check "scripted" "doomed" {
  arguments {
    target = "anything"
  }

  retry {
    max_attempts  = 3
    initial_delay = "1ms"
  }
}
`

	// --- Act ---
	result := testutil.RunGrid(t, map[string]string{"main.hcl": gridHCL}, mod)

	// --- Assert ---
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "1 of 1 checks failed")
	assert.Equal(t, 3, mod.Calls(), "the retry budget caps the attempt count")
	assert.Contains(t, result.LogOutput, "command failed")
	assert.Contains(t, result.LogOutput, "attempts=3")
	assert.Contains(t, result.LogOutput, "scripted failure 3", "the last failure should be the one reported")
}
