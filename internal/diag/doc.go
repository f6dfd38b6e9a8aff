// Package diag defines the diagnostic model shared by the transpile,
// resolve, and host layers.
//
// Diagnostic is the central record: a Severity, a stable Code, a human
// message, a primary Span, and optional Notes and Fixes. Producers emit
// through a Reporter rather than writing directly into storage; Bag is
// the concrete accumulator most callers hand a Reporter over, and
// DedupReporter filters repeats before they reach one.
package diag
