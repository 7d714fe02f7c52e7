package arbor

import "github.com/danvale/arbor/internal/engine"

// ModuleInjector is the application-scoped provider set: a flat token map
// with an optional parent module chain and no element nesting. Module
// provider dependencies resolve purely within the module chain; they never
// reach back into element declarations.
type ModuleInjector = engine.ModuleInjector

// State is the application lifecycle state.
type State = engine.State

const (
	StateNew      = engine.StateNew
	StateStarting = engine.StateStarting
	StateRunning  = engine.StateRunning
	StateStopping = engine.StateStopping
	StateStopped  = engine.StateStopped
)
