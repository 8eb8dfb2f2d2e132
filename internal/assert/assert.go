// Package assert provides debug-gated invariant checks, per spec §7: a violated
// invariant aborts in a debug build (built with -tags debug) and is compiled out
// entirely in a release build, so callers of low-level primitives remain responsible
// for never reaching those states in production.
package assert

import "fmt"

// Check panics with a formatted message if ok is false. A no-op unless the binary was
// built with the debug tag (see debug.go/release.go).
func Check(ok bool, format string, args ...any) {
	if enabled && !ok {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
