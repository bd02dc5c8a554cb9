// Package retry runs fallible operations under an exponential backoff
// policy. The operation classifies its own failures as retryable or fatal;
// the executor trusts that classification and never reclassifies. Attempts
// are strictly sequential and the context is consulted before every attempt
// and during every delay.
package retry
