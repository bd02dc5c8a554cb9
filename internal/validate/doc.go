// Package validate checks typed string inputs against declarative rules
// before a command is allowed to execute. Validation is pure: a rule never
// logs and has no side effects beyond reading filesystem state for path
// rules.
package validate
