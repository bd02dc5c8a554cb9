// Package registry maps check kinds declared in grid files to the Go
// builders that construct their operations, and validates a loaded grid
// against the registered kinds before anything executes.
package registry
