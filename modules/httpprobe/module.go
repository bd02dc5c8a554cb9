// Package httpprobe provides the 'httpprobe' check kind: an HTTP request
// that succeeds when the response carries the expected status code.
// Transport errors and 5xx responses are transient; an unexpected 4xx means
// the probe itself is wrong and retrying will not help.
package httpprobe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/vk/gridcheck/internal/command"
	"github.com/vk/gridcheck/internal/ctxlog"
	"github.com/vk/gridcheck/internal/logging"
	"github.com/vk/gridcheck/internal/registry"
	"github.com/vk/gridcheck/internal/retry"
)

const defaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the builder with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBuilder("httpprobe", build)
}

type operation struct {
	url          string
	method       string
	expectStatus int
	client       *http.Client
}

func build(ctx context.Context, args map[string]string) (command.Operation, error) {
	url := args["url"]
	if url == "" {
		return nil, fmt.Errorf("httpprobe requires a 'url' argument")
	}

	op := &operation{
		url:          url,
		method:       http.MethodGet,
		expectStatus: http.StatusOK,
	}
	if method := args["method"]; method != "" {
		op.method = method
	}
	if raw := args["expect_status"]; raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("httpprobe: invalid expect_status %q", raw)
		}
		op.expectStatus = status
	}

	timeout := defaultTimeout
	if raw := args["timeout"]; raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("httpprobe: invalid timeout: %w", err)
		}
		timeout = d
	}
	op.client = &http.Client{Timeout: timeout}
	return op, nil
}

// Attempt implements command.Operation.
func (o *operation) Attempt(ctx context.Context) (command.Output, error) {
	logger := ctxlog.FromContext(ctx).With(
		logging.F("runner", "httpprobe"),
		logging.F("url", o.url),
	)

	req, err := http.NewRequestWithContext(ctx, o.method, o.url, nil)
	if err != nil {
		return command.Output{}, retry.Fatal(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return command.Output{}, retry.Retryable(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused by the next attempt.
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Debug("Probe response received.", logging.F("status", resp.Status))

	switch {
	case resp.StatusCode == o.expectStatus:
		return command.Output{
			Summary: resp.Status,
			Details: map[string]string{"status_code": strconv.Itoa(resp.StatusCode)},
		}, nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return command.Output{}, retry.Retryable(fmt.Errorf("unexpected status %s", resp.Status))
	default:
		return command.Output{}, retry.Fatal(fmt.Errorf("unexpected status %s (wanted %d)", resp.Status, o.expectStatus))
	}
}
