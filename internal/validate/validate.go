package validate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// Code identifies the reason a value was rejected.
type Code int

const (
	CodePatternMismatch Code = iota
	CodeNotAnInteger
	CodeOutOfRange
	CodePathNotFound
	CodeWrongType
	CodePermissionDenied
)

// String returns the code name.
func (c Code) String() string {
	switch c {
	case CodePatternMismatch:
		return "pattern_mismatch"
	case CodeNotAnInteger:
		return "not_an_integer"
	case CodeOutOfRange:
		return "out_of_range"
	case CodePathNotFound:
		return "path_not_found"
	case CodeWrongType:
		return "wrong_type"
	case CodePermissionDenied:
		return "permission_denied"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error reports a failed validation. Callers branch on Code rather than
// parsing the message.
type Error struct {
	Code   Code
	Value  string
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Code, e.Detail)
}

// Validate checks value against rule and returns a *Error describing the
// first problem found, or nil.
func Validate(value string, rule Rule) error {
	switch rule.kind {
	case KindStringPattern:
		return validatePattern(value, rule)
	case KindIntegerRange:
		return validateRange(value, rule)
	case KindPathExistence:
		return validatePath(value, rule)
	default:
		return fmt.Errorf("unknown rule kind %d", int(rule.kind))
	}
}

func validatePattern(value string, rule Rule) error {
	if !rule.pattern.MatchString(value) {
		return &Error{
			Code:   CodePatternMismatch,
			Value:  value,
			Detail: fmt.Sprintf("%q does not match pattern %s", value, rule.pattern),
		}
	}
	return nil
}

func validateRange(value string, rule Rule) error {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return &Error{
			Code:   CodeNotAnInteger,
			Value:  value,
			Detail: fmt.Sprintf("%q is not a base-10 integer", value),
		}
	}
	if n < rule.min || n > rule.max {
		return &Error{
			Code:   CodeOutOfRange,
			Value:  value,
			Detail: fmt.Sprintf("%d is outside [%d, %d]", n, rule.min, rule.max),
		}
	}
	return nil
}

func validatePath(value string, rule Rule) error {
	// os.Stat follows symbolic links, which is the behaviour we want.
	info, err := os.Stat(value)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return &Error{
				Code:   CodePermissionDenied,
				Value:  value,
				Detail: fmt.Sprintf("cannot stat %q: %v", value, err),
			}
		}
		return &Error{
			Code:   CodePathNotFound,
			Value:  value,
			Detail: fmt.Sprintf("path %q does not exist", value),
		}
	}

	switch rule.pathType {
	case PathFile:
		if info.IsDir() {
			return &Error{
				Code:   CodeWrongType,
				Value:  value,
				Detail: fmt.Sprintf("%q is a directory, expected a file", value),
			}
		}
	case PathDir:
		if !info.IsDir() {
			return &Error{
				Code:   CodeWrongType,
				Value:  value,
				Detail: fmt.Sprintf("%q is not a directory", value),
			}
		}
	}

	if rule.perm != 0 {
		// unix.Access checks against the effective UID, unlike a naive
		// inspection of mode bits.
		if err := unix.Access(value, accessMode(rule.perm)); err != nil {
			return &Error{
				Code:   CodePermissionDenied,
				Value:  value,
				Detail: fmt.Sprintf("%q is missing required permission %s", value, permString(rule.perm)),
			}
		}
	}
	return nil
}

func accessMode(perm Permission) uint32 {
	var mode uint32
	if perm&PermRead != 0 {
		mode |= unix.R_OK
	}
	if perm&PermWrite != 0 {
		mode |= unix.W_OK
	}
	if perm&PermExecute != 0 {
		mode |= unix.X_OK
	}
	return mode
}

func permString(perm Permission) string {
	out := ""
	if perm&PermRead != 0 {
		out += "r"
	}
	if perm&PermWrite != 0 {
		out += "w"
	}
	if perm&PermExecute != 0 {
		out += "x"
	}
	return out
}
