// Package sysinfo provides the 'sysinfo' check kind: local resource
// threshold checks (disk and memory usage) of the sort health-check scripts
// poll for. A breached threshold is transient — pressure can clear — so it
// stays retryable under the check's policy.
package sysinfo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/vk/gridcheck/internal/command"
	"github.com/vk/gridcheck/internal/ctxlog"
	"github.com/vk/gridcheck/internal/logging"
	"github.com/vk/gridcheck/internal/registry"
	"github.com/vk/gridcheck/internal/retry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the builder with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBuilder("sysinfo", build)
}

type operation struct {
	resource   string
	path       string
	maxPercent float64
}

func build(ctx context.Context, args map[string]string) (command.Operation, error) {
	resource := args["resource"]
	switch resource {
	case "disk", "memory":
	case "":
		return nil, fmt.Errorf("sysinfo requires a 'resource' argument (disk or memory)")
	default:
		return nil, fmt.Errorf("sysinfo: unknown resource %q (want disk or memory)", resource)
	}

	raw := args["max_used_percent"]
	if raw == "" {
		return nil, fmt.Errorf("sysinfo requires a 'max_used_percent' argument")
	}
	maxPercent, err := strconv.ParseFloat(raw, 64)
	if err != nil || maxPercent < 0 || maxPercent > 100 {
		return nil, fmt.Errorf("sysinfo: max_used_percent must be a number in [0, 100], got %q", raw)
	}

	op := &operation{resource: resource, path: "/", maxPercent: maxPercent}
	if path := args["path"]; path != "" {
		op.path = path
	}
	return op, nil
}

// Attempt implements command.Operation.
func (o *operation) Attempt(ctx context.Context) (command.Output, error) {
	logger := ctxlog.FromContext(ctx).With(logging.F("runner", "sysinfo"), logging.F("resource", o.resource))

	var usedPercent float64
	var label string

	switch o.resource {
	case "disk":
		usage, err := disk.UsageWithContext(ctx, o.path)
		if err != nil {
			return command.Output{}, retry.Fatal(fmt.Errorf("failed to stat filesystem %q: %w", o.path, err))
		}
		usedPercent = usage.UsedPercent
		label = fmt.Sprintf("disk %s", o.path)
	case "memory":
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return command.Output{}, retry.Fatal(fmt.Errorf("failed to read memory stats: %w", err))
		}
		usedPercent = vm.UsedPercent
		label = "memory"
	}

	logger.Debug("Resource usage measured.", logging.F("used_percent", fmt.Sprintf("%.1f", usedPercent)))

	if usedPercent > o.maxPercent {
		return command.Output{}, retry.Retryable(
			fmt.Errorf("%s usage %.1f%% exceeds threshold %.1f%%", label, usedPercent, o.maxPercent))
	}

	return command.Output{
		Summary: fmt.Sprintf("%s usage %.1f%%", label, usedPercent),
		Details: map[string]string{
			"used_percent": fmt.Sprintf("%.1f", usedPercent),
			"threshold":    fmt.Sprintf("%.1f", o.maxPercent),
		},
	}, nil
}
