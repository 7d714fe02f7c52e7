package arbor

import "github.com/danvale/arbor/internal/engine"

// Provider is a single (token -> value | factory | alias) declaration.
// Records are immutable once declared; redeclaring a token at the same
// scope replaces the earlier record.
type Provider = engine.Provider

// Dep is one declared dependency of a factory provider or directive.
type Dep = engine.Dep

// FactoryFunc constructs an instance from its resolved dependencies, passed
// in declared order. Absent optional dependencies arrive as nil.
type FactoryFunc = engine.FactoryFunc

// DestroyHook runs when the owning scope tears the instance down.
type DestroyHook = engine.DestroyHook

// Hook is a lifecycle callback for module-scoped providers.
type Hook = engine.Hook

// Value declares a provider resolving to a fixed instance.
func Value(token *Token, v any) Provider {
	return engine.Value(token, v)
}

// Factory declares a provider constructed on first use from its declared
// dependencies. Dependencies resolve relative to the scope the provider is
// declared at, each with its own flags.
func Factory(token *Token, fn FactoryFunc, deps ...Dep) Provider {
	return engine.Factory(token, fn, deps...)
}

// Existing declares an alias: resolution re-enters the lookup at the same
// scope with the target token, so overriding the target redirects the
// alias.
func Existing(token *Token, target *Token) Provider {
	return engine.Existing(token, target)
}

// DepOf declares a token dependency with optional modifier flags.
func DepOf(token *Token, flags ...Flags) Dep {
	return Dep{Token: token, Flags: combine(flags)}
}

// AttrDep declares an attribute dependency: it resolves against the static
// attributes of the requesting element's own tag, never ascends, and yields
// nil when the attribute is absent.
func AttrDep(name string) Dep {
	return Dep{Attr: name}
}
