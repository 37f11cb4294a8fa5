// Package assert checks invariants that should never fire in a correct
// build: the rasterization core has no recoverable failure modes and
// returns no error, so a violated precondition is a bug, not input to
// handle. Always is a no-op unless built with the swrast_debug tag, so
// the checks cost nothing in the hot path by default.
package assert

// Always panics with msg if cond is false. Compiled out entirely in
// non-debug builds; see always_debug.go.
func Always(cond bool, msg string) {
	always(cond, msg)
}
