package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/gridcheck/internal/command"
	"github.com/vk/gridcheck/internal/config"
	"github.com/vk/gridcheck/internal/retry"
	"github.com/vk/gridcheck/internal/validate"
)

// Built-in retry defaults, used when neither the grid defaults block nor
// the check supplies a policy.
const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = time.Second
	defaultMultiplier   = 2.0
	defaultMaxDelay     = 30 * time.Second
)

// PreparedCheck is a grid check compiled against the registry: rules and
// policy constructed and verified, builder resolved. Preparation happens
// once at startup so a malformed grid is rejected before any check runs.
type PreparedCheck struct {
	Name      string
	Kind      string
	Arguments map[string]string
	Rules     []command.BoundRule
	Policy    retry.Policy
	Build     Builder
}

// Prepare performs a strict parity check between the loaded grid and the
// registered check kinds, compiling every check. All problems are collected
// and reported together.
func (r *Registry) Prepare(ctx context.Context, model *config.Model) ([]*PreparedCheck, error) {
	var errs []string
	prepared := make([]*PreparedCheck, 0, len(model.Checks))

	for _, check := range model.Checks {
		builder, ok := r.builders[check.Kind]
		if !ok {
			errs = append(errs, fmt.Sprintf("check '%s': unknown kind '%s' (registered: %s)",
				check.Name, check.Kind, strings.Join(r.Kinds(), ", ")))
			continue
		}

		policy, err := compilePolicy(check.Retry, model.Defaults)
		if err != nil {
			errs = append(errs, fmt.Sprintf("check '%s': %v", check.Name, err))
			continue
		}

		rules, ruleErrs := compileRules(check)
		if len(ruleErrs) > 0 {
			errs = append(errs, ruleErrs...)
			continue
		}

		prepared = append(prepared, &PreparedCheck{
			Name:      check.Name,
			Kind:      check.Kind,
			Arguments: check.Arguments,
			Rules:     rules,
			Policy:    policy,
			Build:     builder,
		})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("grid validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return prepared, nil
}

func compilePolicy(spec *config.RetrySpec, defaults *config.RetrySpec) (retry.Policy, error) {
	if spec == nil {
		spec = defaults
	}
	if spec == nil {
		return retry.NewPolicy(defaultMaxAttempts, defaultInitialDelay, defaultMultiplier, defaultMaxDelay)
	}
	return retry.NewPolicy(spec.MaxAttempts, spec.InitialDelay, spec.BackoffMultiplier, spec.MaxDelay)
}

func compileRules(check *config.Check) ([]command.BoundRule, []string) {
	var errs []string
	rules := make([]command.BoundRule, 0, len(check.Validations))

	for _, spec := range check.Validations {
		rule, err := compileRule(spec)
		if err != nil {
			errs = append(errs, fmt.Sprintf("check '%s', input '%s': %v", check.Name, spec.Input, err))
			continue
		}
		if _, ok := check.Arguments[spec.Input]; !ok {
			errs = append(errs, fmt.Sprintf("check '%s': validate block references input '%s' which is not declared in arguments",
				check.Name, spec.Input))
			continue
		}
		rules = append(rules, command.BoundRule{Input: spec.Input, Rule: rule})
	}
	return rules, errs
}

func compileRule(spec *config.RuleSpec) (validate.Rule, error) {
	switch spec.Kind {
	case "string_pattern":
		if spec.Pattern == "" {
			return validate.Rule{}, fmt.Errorf("string_pattern rule requires a pattern")
		}
		return validate.Pattern(spec.Pattern)

	case "integer_range":
		if spec.Min == nil || spec.Max == nil {
			return validate.Rule{}, fmt.Errorf("integer_range rule requires min and max")
		}
		return validate.IntegerRange(*spec.Min, *spec.Max)

	case "path_existence":
		pathType, err := parsePathType(spec.PathType)
		if err != nil {
			return validate.Rule{}, err
		}
		perm, err := parsePermission(spec.Permission)
		if err != nil {
			return validate.Rule{}, err
		}
		return validate.Path(pathType, perm), nil

	default:
		return validate.Rule{}, fmt.Errorf("unknown rule kind %q", spec.Kind)
	}
}

func parsePathType(s string) (validate.PathType, error) {
	switch s {
	case "", "any":
		return validate.PathAny, nil
	case "file":
		return validate.PathFile, nil
	case "dir":
		return validate.PathDir, nil
	default:
		return validate.PathAny, fmt.Errorf("unknown path_type %q (want file, dir, or any)", s)
	}
}

func parsePermission(s string) (validate.Permission, error) {
	var perm validate.Permission
	for _, c := range s {
		switch c {
		case 'r':
			perm |= validate.PermRead
		case 'w':
			perm |= validate.PermWrite
		case 'x':
			perm |= validate.PermExecute
		default:
			return 0, fmt.Errorf("unknown permission %q (want a subset of rwx)", s)
		}
	}
	return perm, nil
}
