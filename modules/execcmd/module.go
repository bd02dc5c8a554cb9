// Package execcmd provides the 'execcmd' check kind: it runs an external
// command through the shell and classifies failures by exit code. Every
// attempt gets its own process and output buffers; nothing is shared
// between attempts.
package execcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/vk/gridcheck/internal/command"
	"github.com/vk/gridcheck/internal/ctxlog"
	"github.com/vk/gridcheck/internal/logging"
	"github.com/vk/gridcheck/internal/registry"
	"github.com/vk/gridcheck/internal/retry"
)

// outputCap bounds how much captured output is carried into results and logs.
const outputCap = 4 * 1024

const defaultShell = "/bin/sh"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the builder with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBuilder("execcmd", build)
}

type operation struct {
	commandLine string
	shell       string
	timeout     time.Duration
	fatalCodes  map[int]struct{}
}

func build(ctx context.Context, args map[string]string) (command.Operation, error) {
	commandLine := args["command"]
	if commandLine == "" {
		return nil, fmt.Errorf("execcmd requires a 'command' argument")
	}

	op := &operation{
		commandLine: commandLine,
		shell:       defaultShell,
		fatalCodes:  make(map[int]struct{}),
	}
	if shell := args["shell"]; shell != "" {
		op.shell = shell
	}
	if raw := args["timeout"]; raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("execcmd: invalid timeout: %w", err)
		}
		op.timeout = d
	}
	if raw := args["fatal_exit_codes"]; raw != "" {
		for _, part := range strings.Split(raw, ",") {
			code, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("execcmd: invalid fatal_exit_codes entry %q", part)
			}
			op.fatalCodes[code] = struct{}{}
		}
	}
	return op, nil
}

// Attempt implements command.Operation. An exit code listed in
// fatal_exit_codes is a fatal failure; any other non-zero exit is treated
// as transient and retried under the check's policy.
func (o *operation) Attempt(ctx context.Context) (command.Output, error) {
	logger := ctxlog.FromContext(ctx).With(logging.F("runner", "execcmd"))

	attemptCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(attemptCtx, o.shell, "-c", o.commandLine)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Spawning process.", logging.F("shell", o.shell))
	err := cmd.Run()
	if err == nil {
		return command.Output{
			Summary: "exit 0",
			Details: map[string]string{
				"exit_code": "0",
				"stdout":    excerpt(stdout.String()),
			},
		}, nil
	}

	if attemptCtx.Err() != nil && ctx.Err() == nil {
		// Per-attempt timeout, not caller cancellation.
		return command.Output{}, retry.Retryable(fmt.Errorf("command timed out after %s", o.timeout))
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		detail := fmt.Errorf("exit status %d: %s", code, excerpt(stderr.String()))
		if _, fatal := o.fatalCodes[code]; fatal {
			return command.Output{}, retry.Fatal(detail)
		}
		return command.Output{}, retry.Retryable(detail)
	}

	// The process never started (bad shell path, fork failure); retrying
	// will not help.
	return command.Output{}, retry.Fatal(fmt.Errorf("failed to start command: %w", err))
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > outputCap {
		s = s[:outputCap] + "...(truncated)"
	}
	return s
}
