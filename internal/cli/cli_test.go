package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		args       []string
		wantExit   bool
		wantErr    string
		wantPath   string
	}{
		{
			name:     "positional grid path",
			args:     []string{"grid.hcl"},
			wantPath: "grid.hcl",
		},
		{
			name:     "grid flag wins over positional",
			args:     []string{"-grid", "a.hcl", "b.hcl"},
			wantPath: "a.hcl",
		},
		{
			name:     "shorthand flag",
			args:     []string{"-g", "grids/"},
			wantPath: "grids/",
		},
		{
			name:     "no path prints usage and exits",
			args:     []string{},
			wantExit: true,
		},
		{
			name:    "invalid log format",
			args:    []string{"-log-format", "yaml", "grid.hcl"},
			wantErr: "invalid log-format",
		},
		{
			name:    "invalid log level",
			args:    []string{"-log-level", "verbose", "grid.hcl"},
			wantErr: "unknown log level",
		},
		{
			name:    "zero workers rejected",
			args:    []string{"-workers", "0", "grid.hcl"},
			wantErr: "WorkerCount",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				exitErr, ok := err.(*ExitError)
				require.True(t, ok)
				assert.Equal(t, 2, exitErr.Code)
				return
			}
			require.NoError(t, err)

			if tc.wantExit {
				assert.True(t, shouldExit)
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			require.NotNil(t, cfg)
			assert.Equal(t, tc.wantPath, cfg.GridPath)
		})
	}
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"grid.hcl"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 0, cfg.HealthcheckPort)
	assert.False(t, cfg.FailFast)
}
