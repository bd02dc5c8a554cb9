// Package hcl loads grid files written in HCL and translates them into the
// format-agnostic config model. All HCL-specific concerns (parsing,
// expression evaluation, the env variable namespace) stay inside this
// package.
package hcl
