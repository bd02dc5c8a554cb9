package httpprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
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

func probeServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBuildRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := build(testContext(), map[string]string{})
	assert.Error(t, err)
}

func TestExpectedStatusSucceeds(t *testing.T) {
	t.Parallel()

	srv := probeServer(t, http.StatusOK)
	op, err := build(testContext(), map[string]string{"url": srv.URL})
	require.NoError(t, err)

	out, err := op.Attempt(testContext())
	require.NoError(t, err)
	assert.Equal(t, "200", out.Details["status_code"])
}

func TestCustomExpectedStatus(t *testing.T) {
	t.Parallel()

	srv := probeServer(t, http.StatusNoContent)
	op, err := build(testContext(), map[string]string{"url": srv.URL, "expect_status": "204"})
	require.NoError(t, err)

	_, err = op.Attempt(testContext())
	assert.NoError(t, err)
}

func TestServerErrorIsRetryable(t *testing.T) {
	t.Parallel()

	srv := probeServer(t, http.StatusServiceUnavailable)
	op, err := build(testContext(), map[string]string{"url": srv.URL})
	require.NoError(t, err)

	_, err = op.Attempt(testContext())
	require.Error(t, err)
	assert.False(t, retry.IsFatal(err))
}

func TestClientErrorIsFatal(t *testing.T) {
	t.Parallel()

	srv := probeServer(t, http.StatusNotFound)
	op, err := build(testContext(), map[string]string{"url": srv.URL})
	require.NoError(t, err)

	_, err = op.Attempt(testContext())
	require.Error(t, err)
	assert.True(t, retry.IsFatal(err))
}

func TestConnectionRefusedIsRetryable(t *testing.T) {
	t.Parallel()

	srv := probeServer(t, http.StatusOK)
	url := srv.URL
	srv.Close()

	op, err := build(testContext(), map[string]string{"url": url, "timeout": "500ms"})
	require.NoError(t, err)

	_, err = op.Attempt(testContext())
	require.Error(t, err)
	assert.False(t, retry.IsFatal(err))
}
