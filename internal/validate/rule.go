package validate

import (
	"fmt"
	"regexp"
)

// Kind discriminates the rule variants.
type Kind int

const (
	KindStringPattern Kind = iota
	KindIntegerRange
	KindPathExistence
)

// String returns the rule kind name as written in grid files.
func (k Kind) String() string {
	switch k {
	case KindStringPattern:
		return "string_pattern"
	case KindIntegerRange:
		return "integer_range"
	case KindPathExistence:
		return "path_existence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PathType constrains what a path rule expects to find.
type PathType int

const (
	// PathAny accepts any existing entry.
	PathAny PathType = iota
	PathFile
	PathDir
)

// Permission is a set of access bits a path rule requires.
type Permission uint8

const (
	PermRead Permission = 1 << iota
	PermWrite
	PermExecute
)

// Rule is a stateless, reusable validation rule. Construct one with
// Pattern, IntegerRange, or Path; the zero value is not valid.
type Rule struct {
	kind     Kind
	pattern  *regexp.Regexp
	min, max int64
	pathType PathType
	perm     Permission
}

// Kind reports which variant this rule is.
func (r Rule) Kind() Kind { return r.kind }

// Pattern builds a STRING_PATTERN rule. The expression must match the whole
// value, so it is anchored here if the author did not anchor it.
func Pattern(expr string) (Rule, error) {
	re, err := regexp.Compile("\\A(?:" + expr + ")\\z")
	if err != nil {
		return Rule{}, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return Rule{kind: KindStringPattern, pattern: re}, nil
}

// IntegerRange builds an INTEGER_RANGE rule with inclusive bounds.
func IntegerRange(min, max int64) (Rule, error) {
	if min > max {
		return Rule{}, fmt.Errorf("invalid range: min %d exceeds max %d", min, max)
	}
	return Rule{kind: KindIntegerRange, min: min, max: max}, nil
}

// Path builds a PATH_EXISTENCE rule. perm may be zero when only existence
// and type matter.
func Path(pathType PathType, perm Permission) Rule {
	return Rule{kind: KindPathExistence, pathType: pathType, perm: perm}
}
