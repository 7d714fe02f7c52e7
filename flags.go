package arbor

import "github.com/danvale/arbor/internal/engine"

// Flags are independent resolution modifiers combined with bitwise or.
type Flags = engine.Flags

const (
	// Default requests a plain local-then-ancestor-then-module lookup.
	Default = engine.Default
	// Optional suppresses the not-found failure and yields nil instead.
	// It never suppresses circular-dependency failures.
	Optional = engine.Optional
	// SkipSelf begins the walk at the parent scope, excluding the
	// current one.
	SkipSelf = engine.SkipSelf
	// Self restricts the walk to the current scope, with no ancestor or
	// module fallback.
	Self = engine.Self
	// Host stops the ancestor walk at the nearest component host
	// boundary; at the boundary only view providers are reachable, and
	// there is no module fallback.
	Host = engine.Host
)

func combine(flags []Flags) Flags {
	var f Flags
	for _, x := range flags {
		f |= x
	}
	return f
}
