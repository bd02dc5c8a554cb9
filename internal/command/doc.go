// Package command wires validation, retry execution, and structured logging
// into a single entry point for running a named operation. It owns the
// logging of every outcome: the validator and the retry executor never log,
// so each failure appears exactly once.
package command
