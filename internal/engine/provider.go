package engine

import "context"

type providerKind uint8

const (
	valueKind providerKind = iota
	factoryKind
	aliasKind
)

func (k providerKind) String() string {
	switch k {
	case valueKind:
		return "value"
	case factoryKind:
		return "factory"
	case aliasKind:
		return "alias"
	default:
		return "unknown"
	}
}

// Dep is one declared dependency of a factory provider or directive. Either
// Token or Attr is set: attribute dependencies resolve against the static
// attributes of the requesting element's own tag and never ascend.
type Dep struct {
	Token *Token
	Flags Flags
	Attr  string
}

// FactoryFunc constructs an instance from its resolved dependencies, passed
// in declared order. Absent optional dependencies arrive as nil.
type FactoryFunc func(deps []any) (any, error)

// DestroyHook runs when the owning scope tears the instance down.
type DestroyHook func(instance any)

// Hook is a lifecycle callback for module-scoped providers.
type Hook func(ctx context.Context) error

// Provider is a single (token -> value | factory | alias) declaration.
// Records are immutable once declared; the builder methods return copies.
type Provider struct {
	token       *Token
	kind        providerKind
	value       any
	factory     FactoryFunc
	deps        []Dep
	aliasTarget *Token
	onDestroy   []DestroyHook
	onStart     []Hook
	onStop      []Hook
}

// Value declares a provider resolving to a fixed instance.
func Value(token *Token, v any) Provider {
	return Provider{token: token, kind: valueKind, value: v}
}

// Factory declares a provider constructed on first use from its declared
// dependencies.
func Factory(token *Token, fn FactoryFunc, deps ...Dep) Provider {
	return Provider{token: token, kind: factoryKind, factory: fn, deps: deps}
}

// Existing declares an alias: resolution re-enters the lookup at the same
// scope with the target token, so overriding the target redirects the alias.
func Existing(token *Token, target *Token) Provider {
	return Provider{token: token, kind: aliasKind, aliasTarget: target}
}

func (p Provider) Token() *Token {
	return p.token
}

func (p Provider) Kind() string {
	return p.kind.String()
}

// DependsOn lists the token dependencies of the provider, including an alias
// target. Attribute dependencies are excluded.
func (p Provider) DependsOn() []*Token {
	if p.kind == aliasKind {
		return []*Token{p.aliasTarget}
	}

	var tokens []*Token
	for _, d := range p.deps {
		if d.Token != nil {
			tokens = append(tokens, d.Token)
		}
	}
	return tokens
}

// OnDestroy registers a teardown hook run when the owning scope is destroyed.
func (p Provider) OnDestroy(hook DestroyHook) Provider {
	p.onDestroy = append(cloneHooks(p.onDestroy), hook)
	return p
}

// OnStart registers a startup hook, run during eager application start.
// Only meaningful for module-scoped providers.
func (p Provider) OnStart(hook Hook) Provider {
	p.onStart = append(cloneLifecycleHooks(p.onStart), hook)
	return p
}

// OnStop registers a shutdown hook. Only meaningful for module-scoped
// providers.
func (p Provider) OnStop(hook Hook) Provider {
	p.onStop = append(cloneLifecycleHooks(p.onStop), hook)
	return p
}

func (p Provider) validate() error {
	if p.token == nil {
		return errInvalidProvider(nil, "provider has no token")
	}
	if p.token.special() {
		return errInvalidProvider(p.token, "built-in tokens cannot be provided")
	}

	switch p.kind {
	case factoryKind:
		if p.factory == nil {
			return errInvalidProvider(p.token, "factory provider has no factory")
		}
		for _, d := range p.deps {
			if d.Token == nil && d.Attr == "" {
				return errInvalidProvider(p.token, "dependency has neither token nor attribute")
			}
		}
	case aliasKind:
		if p.aliasTarget == nil {
			return errInvalidProvider(p.token, "alias provider has no target")
		}
	}

	return nil
}

func cloneHooks(hooks []DestroyHook) []DestroyHook {
	out := make([]DestroyHook, len(hooks))
	copy(out, hooks)
	return out
}

func cloneLifecycleHooks(hooks []Hook) []Hook {
	out := make([]Hook, len(hooks))
	copy(out, hooks)
	return out
}
