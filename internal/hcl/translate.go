package hcl

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/gridcheck/internal/config"
	"github.com/vk/gridcheck/internal/schema"
)

// Built-in retry defaults, used for any field an HCL retry block omits.
const (
	defaultInitialDelay      = time.Second
	defaultBackoffMultiplier = 2.0
)

// translateCheck converts the HCL-specific check schema into the agnostic model.
func (l *Loader) translateCheck(c *schema.Check, evalCtx *hcl.EvalContext) (*config.Check, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("check of kind %q has an empty instance name", c.Kind)
	}

	args, err := evaluateArguments(c.Arguments, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("check %q: %w", c.Name, err)
	}

	out := &config.Check{
		Kind:      c.Kind,
		Name:      c.Name,
		Arguments: args,
	}

	if c.Retry != nil {
		spec, err := translateRetry(c.Retry)
		if err != nil {
			return nil, fmt.Errorf("check %q: invalid retry block: %w", c.Name, err)
		}
		out.Retry = spec
	}

	for _, v := range c.Validations {
		out.Validations = append(out.Validations, &config.RuleSpec{
			Input:      v.Input,
			Kind:       v.Kind,
			Pattern:    v.Pattern,
			Min:        v.Min,
			Max:        v.Max,
			PathType:   v.PathType,
			Permission: v.Permission,
		})
	}

	return out, nil
}

// evaluateArguments resolves every attribute of the arguments block to a
// plain string. Expressions may reference the env namespace.
func evaluateArguments(args *schema.Args, evalCtx *hcl.EvalContext) (map[string]string, error) {
	out := make(map[string]string)
	if args == nil {
		return out, nil
	}

	attrs, diags := args.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid arguments block: %s", diags.Error())
	}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("argument %q: %s", name, diags.Error())
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("argument %q: cannot convert %s to string: %w", name, val.Type().FriendlyName(), err)
		}
		if str.IsNull() {
			return nil, fmt.Errorf("argument %q evaluates to null", name)
		}
		out[name] = str.AsString()
	}
	return out, nil
}

// translateRetry converts a retry block, applying built-in defaults for
// omitted fields. Policy-level range checks happen later, at startup
// validation, where they are reported per check.
func translateRetry(r *schema.Retry) (*config.RetrySpec, error) {
	spec := &config.RetrySpec{
		MaxAttempts:       r.MaxAttempts,
		InitialDelay:      defaultInitialDelay,
		BackoffMultiplier: defaultBackoffMultiplier,
	}

	if r.InitialDelay != "" {
		d, err := time.ParseDuration(r.InitialDelay)
		if err != nil {
			return nil, fmt.Errorf("initial_delay: %w", err)
		}
		spec.InitialDelay = d
	}
	if r.BackoffMultiplier != nil {
		spec.BackoffMultiplier = *r.BackoffMultiplier
	}
	if r.MaxDelay != "" {
		d, err := time.ParseDuration(r.MaxDelay)
		if err != nil {
			return nil, fmt.Errorf("max_delay: %w", err)
		}
		spec.MaxDelay = d
	}

	return spec, nil
}
