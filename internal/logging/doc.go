// Package logging implements the structured logger used across the
// application: leveled, timestamped key-value events delivered to one or
// more sinks through a pluggable formatter.
package logging
