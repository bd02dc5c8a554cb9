// Package config defines the format-agnostic model of a loaded grid: the
// checks to run, their arguments, validation rules, and retry policies.
// Format-specific loaders (internal/hcl) translate their syntax into this
// model; nothing downstream of a loader sees HCL types.
package config
