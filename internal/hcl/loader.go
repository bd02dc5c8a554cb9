package hcl

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridcheck/internal/config"
	"github.com/vk/gridcheck/internal/ctxlog"
	"github.com/vk/gridcheck/internal/logging"
	"github.com/vk/gridcheck/internal/fsutil"
	"github.com/vk/gridcheck/internal/schema"
)

const gridFileExtension = ".hcl"

// Loader parses .hcl grid files into the config model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a ready-to-use HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load implements config.Loader. Every file reachable from the given paths
// is parsed and merged into a single model; check names must be unique
// across the whole grid.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	evalCtx := baseEvalContext()

	model := &config.Model{}
	seen := make(map[string]string)

	for _, path := range paths {
		files, err := fsutil.CollectFiles(path, gridFileExtension)
		if err != nil {
			return nil, fmt.Errorf("failed to locate grid files under %q: %w", path, err)
		}
		logger.Debug("Grid files discovered.", logging.F("path", path), logging.F("count", strconv.Itoa(len(files))))

		for _, file := range files {
			grid, err := l.parseFile(file, evalCtx)
			if err != nil {
				return nil, err
			}

			if grid.Defaults != nil && grid.Defaults.Retry != nil {
				if model.Defaults != nil {
					return nil, fmt.Errorf("duplicate defaults block in %q: defaults may be declared once per grid", file)
				}
				spec, err := translateRetry(grid.Defaults.Retry)
				if err != nil {
					return nil, fmt.Errorf("%s: invalid defaults retry block: %w", file, err)
				}
				model.Defaults = spec
			}

			for _, c := range grid.Checks {
				check, err := l.translateCheck(c, evalCtx)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", file, err)
				}
				if prev, dup := seen[check.Name]; dup {
					return nil, fmt.Errorf("%s: duplicate check name %q (first declared in %s)", file, check.Name, prev)
				}
				seen[check.Name] = file
				model.Checks = append(model.Checks, check)
			}
		}
	}

	logger.Debug("Grid model assembled.", logging.F("checks", strconv.Itoa(len(model.Checks))))
	return model, nil
}

func (l *Loader) parseFile(file string, evalCtx *hcl.EvalContext) (*schema.Grid, error) {
	f, diags := l.parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %q: %s", file, diags.Error())
	}

	var grid schema.Grid
	if diags := gohcl.DecodeBody(f.Body, evalCtx, &grid); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %q: %s", file, diags.Error())
	}
	return &grid, nil
}

// baseEvalContext exposes the process environment as the `env` object, so
// grid files can write `env.HOME` the way shell scripts interpolate "$HOME".
func baseEvalContext() *hcl.EvalContext {
	envVals := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			envVals[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(envVals),
		},
	}
}
