// Package socketio provides the 'socketio' check kind: a connection probe
// against a socket.io endpoint. The probe succeeds as soon as the server
// acknowledges the connection; connection errors and timeouts are transient.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

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
	r.RegisterBuilder("socketio", build)
}

type operation struct {
	baseURL            string
	path               string
	namespace          string
	timeout            time.Duration
	insecureSkipVerify bool
}

func build(ctx context.Context, args map[string]string) (command.Operation, error) {
	rawURL := args["url"]
	if rawURL == "" {
		return nil, fmt.Errorf("socketio requires a 'url' argument")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("socketio: invalid url %q", rawURL)
	}

	op := &operation{
		baseURL:   fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		path:      parsed.Path,
		namespace: args["namespace"],
		timeout:   defaultTimeout,
	}
	if raw := args["timeout"]; raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("socketio: invalid timeout: %w", err)
		}
		op.timeout = d
	}
	if args["insecure_skip_verify"] == "true" {
		op.insecureSkipVerify = true
	}
	return op, nil
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	sid string
	err error
}

// Attempt implements command.Operation. Each attempt opens its own client
// and disconnects on every exit path.
func (o *operation) Attempt(ctx context.Context) (command.Output, error) {
	logger := ctxlog.FromContext(ctx).With(
		logging.F("runner", "socketio"),
		logging.F("url", o.baseURL),
	)
	logger.Debug("Probe started")
	defer logger.Debug("Probe finished")

	opCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	if o.path != "" {
		opts.SetPath(o.path)
	}
	if o.insecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	done := make(chan opResult, 1)

	manager := socket.NewManager(o.baseURL, opts)
	io := manager.Socket(o.namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		done <- opResult{sid: string(io.Id())}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if err, ok := errs[0].(error); ok {
			done <- opResult{err: err}
			return
		}
		done <- opResult{err: fmt.Errorf("connect error: %v", errs[0])}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return command.Output{}, retry.Retryable(ctx.Err())
		}
		return command.Output{}, retry.Retryable(fmt.Errorf("timed out after %s waiting for connection", o.timeout))
	case result := <-done:
		if result.err != nil {
			return command.Output{}, retry.Retryable(fmt.Errorf("connection failed: %w", result.err))
		}
		return command.Output{
			Summary: "connected",
			Details: map[string]string{"sid": result.sid},
		}, nil
	}
}
