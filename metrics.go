package arbor

import "github.com/danvale/arbor/internal/engine"

// ResolveHook observes completed top-level resolutions.
type ResolveHook = engine.ResolveHook

// ProvideHook observes provider registrations at module scope.
type ProvideHook = engine.ProvideHook

// InstantiateHook observes instance construction. The element is nil for
// instances constructed at module scope.
type InstantiateHook = engine.InstantiateHook
