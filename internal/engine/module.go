package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/danvale/arbor/internal/graph"
)

type State int

const (
	StateNew State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ResolveHook observes completed top-level resolutions.
type ResolveHook func(token *Token, duration time.Duration, err error)

// ProvideHook observes provider registrations at module scope.
type ProvideHook func(token *Token)

// InstantiateHook observes instance construction. elem is nil for instances
// constructed at module scope.
type InstantiateHook func(token *Token, elem *Element)

type Config struct {
	Logger        *slog.Logger
	OnResolve     []ResolveHook
	OnProvide     []ProvideHook
	OnInstantiate []InstantiateHook
}

// ModuleInjector is the application-scoped provider set: a flat token map
// with an optional parent module chain and no element nesting. Module
// provider dependencies resolve purely within the module chain; they never
// reach back into element declarations.
type ModuleInjector struct {
	mu      sync.RWMutex
	config  *Config
	parent  *ModuleInjector
	records map[*Token]Provider
	order   []*Token
	graph   *graph.Graph[*Token]
	state   State

	instances    map[*Token]any
	destroyStack []destroyEntry

	constructingMu sync.Mutex
	constructing   map[*Token]bool
	stack          []*Token
}

func NewModule(cfg *Config, parent *ModuleInjector) *ModuleInjector {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &ModuleInjector{
		config:       cfg,
		parent:       parent,
		records:      make(map[*Token]Provider),
		graph:        graph.New[*Token](),
		instances:    make(map[*Token]any),
		constructing: make(map[*Token]bool),
	}
}

// Child creates a module injector nested under this one, sharing its config.
func (m *ModuleInjector) Child(providers ...Provider) (*ModuleInjector, error) {
	child := NewModule(m.config, m)
	for _, p := range providers {
		if err := child.Register(p); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// Register installs a provider at module scope. A token already declared
// here is overwritten: last declaration wins.
func (m *ModuleInjector) Register(p Provider) error {
	if err := p.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if _, exists := m.records[p.token]; !exists {
		m.order = append(m.order, p.token)
	}
	m.records[p.token] = p
	m.mu.Unlock()

	m.graph.AddNode(p.token, p.DependsOn())
	m.logf("provider registered", "token", p.token.String(), "kind", p.kind.String())
	m.notifyProvide(p.token)
	return nil
}

func (m *ModuleInjector) Parent() *ModuleInjector {
	return m.parent
}

func (m *ModuleInjector) Has(token *Token) bool {
	for cur := m; cur != nil; cur = cur.parent {
		if cur.hasLocal(token) {
			return true
		}
	}
	return false
}

func (m *ModuleInjector) hasLocal(token *Token) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.records[token]
	return exists
}

func (m *ModuleInjector) Keys() []*Token {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]*Token, len(m.order))
	copy(keys, m.order)
	return keys
}

// Record returns the provider declared for a token at this module, without
// consulting the parent chain.
func (m *ModuleInjector) Record(token *Token) (Provider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.records[token]
	return p, ok
}

func (m *ModuleInjector) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}

func (m *ModuleInjector) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

// Graph returns a snapshot of the module-scope dependency graph.
func (m *ModuleInjector) Graph() *graph.Graph[*Token] {
	return m.graph.Clone()
}

// Resolve resolves a token at module scope. Self restricts the search to
// this module; SkipSelf starts it at the parent module; Host has no meaning
// here and is ignored.
func (m *ModuleInjector) Resolve(token *Token, flags Flags) (any, error) {
	start := time.Now()

	v, err := m.resolve(token, flags)
	m.notifyResolve(token, time.Since(start), err)
	return v, err
}

func (m *ModuleInjector) resolve(token *Token, flags Flags) (any, error) {
	if token == nil {
		return nil, errInvalidProvider(nil, "resolve called with nil token")
	}

	if token.special() {
		return m.synthesize(token, flags)
	}

	start := m
	if flags.Has(SkipSelf) {
		start = m.parent
	}

	for cur := start; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		p, ok := cur.records[token]
		cur.mu.RUnlock()

		if ok {
			return cur.construct(token, p, flags)
		}
		if flags.Has(Self) {
			break
		}
	}

	if flags.Has(Optional) {
		return nil, nil
	}
	return nil, errNoProvider(token, m.context())
}

// lookup is the module fallback entered from an element walk: a full
// local-then-parent-chain search. The element walk has already consumed the
// modifiers; only the hit itself is reported.
func (m *ModuleInjector) lookup(token *Token) (any, bool, error) {
	for cur := m; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		p, ok := cur.records[token]
		cur.mu.RUnlock()

		if ok {
			v, err := cur.construct(token, p, Default)
			return v, true, err
		}
	}
	return nil, false, nil
}

func (m *ModuleInjector) synthesize(token *Token, flags Flags) (any, error) {
	if token.kind == injectorTokenKind {
		if flags.Has(SkipSelf) {
			if m.parent != nil {
				return m.parent, nil
			}
		} else {
			return m, nil
		}
	}

	if flags.Has(Optional) {
		return nil, nil
	}
	return nil, errNoProvider(token, m.context())
}

// construct builds (or returns the cached) module-scoped singleton,
// guarding the (module, token) pair with the cycle sentinel.
func (m *ModuleInjector) construct(token *Token, p Provider, flags Flags) (any, error) {
	m.mu.RLock()
	instance, cached := m.instances[token]
	m.mu.RUnlock()
	if cached {
		return instance, nil
	}

	m.constructingMu.Lock()
	if m.constructing[token] {
		chain := m.chainFor(token)
		m.constructingMu.Unlock()
		return nil, errCircularDependency(token, chain)
	}
	m.constructing[token] = true
	m.stack = append(m.stack, token)
	m.constructingMu.Unlock()

	defer func() {
		m.constructingMu.Lock()
		delete(m.constructing, token)
		m.stack = m.stack[:len(m.stack)-1]
		m.constructingMu.Unlock()
	}()

	var err error
	switch p.kind {
	case valueKind:
		instance = p.value

	case aliasKind:
		// Same-scope re-entry with the target token, preserving only
		// Optional: an overridden target redirects the alias.
		instance, err = m.resolve(p.aliasTarget, flags&Optional)
		if err != nil {
			return nil, err
		}

	case factoryKind:
		args := make([]any, len(p.deps))
		for i, d := range p.deps {
			if d.Attr != "" {
				return nil, errInvalidProvider(token, "attribute dependencies are element-scoped")
			}
			v, depErr := m.resolve(d.Token, d.Flags)
			if depErr != nil {
				if isCode(depErr, ErrCodeCircularDependency) {
					return nil, depErr
				}
				return nil, errDependencyFailed(token, d.Token, depErr)
			}
			args[i] = v
		}

		instance, err = p.factory(args)
		if err != nil {
			return nil, errProviderFailed(token, err)
		}
	}

	m.mu.Lock()
	m.instances[token] = instance
	m.destroyStack = append(m.destroyStack, destroyEntry{
		token:    token,
		instance: instance,
		hooks:    p.onDestroy,
	})
	m.mu.Unlock()

	m.logf("instance constructed", "token", token.String())
	m.notifyInstantiate(token, nil)
	return instance, nil
}

// Cached returns the module-scoped instance for a token without triggering
// construction.
func (m *ModuleInjector) Cached(token *Token) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	instance, ok := m.instances[token]
	return instance, ok
}

// Validate checks the module-scope declarations for dependencies that no
// module in the chain can satisfy and for declaration-time cycles.
func (m *ModuleInjector) Validate() error {
	known := func(t *Token) bool {
		if t.special() {
			return t.kind == injectorTokenKind
		}
		return m.parent != nil && m.parent.Has(t)
	}

	if missing := m.graph.Validate(known); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, t := range missing {
			names[i] = t.String()
		}
		return NewError(
			ErrCodeValidationFailed,
			fmt.Sprintf("missing module dependencies: %s", strings.Join(names, ", ")),
			nil,
		)
	}

	if m.graph.HasCycle() {
		var chains []string
		for _, path := range m.graph.GetAllCyclePaths() {
			names := make([]string, len(path))
			for i, t := range path {
				names[i] = t.String()
			}
			chains = append(chains, strings.Join(names, " -> "))
		}
		return NewError(
			ErrCodeValidationFailed,
			fmt.Sprintf("circular module dependencies: %s", strings.Join(chains, "; ")),
			nil,
		)
	}

	return nil
}

// Start eagerly instantiates the module-scope providers in dependency order
// and runs their OnStart hooks.
func (m *ModuleInjector) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateNew && m.state != StateStopped {
		m.mu.Unlock()
		return NewError(ErrCodeAlreadyStarted, "module injector already started", nil)
	}
	m.state = StateStarting
	m.mu.Unlock()

	order, err := m.graph.StartupOrder()
	if err != nil {
		return NewError(ErrCodeStartupFailed, "failed to determine startup order", err)
	}

	for _, token := range order {
		if _, err := m.resolve(token, Default); err != nil {
			return NewError(ErrCodeStartupFailed, fmt.Sprintf("failed to instantiate %s", token), err)
		}

		m.mu.RLock()
		p := m.records[token]
		m.mu.RUnlock()

		for _, hook := range p.onStart {
			m.logf("running OnStart hook", "token", token.String())
			if err := hook(ctx); err != nil {
				return NewError(ErrCodeStartupFailed, fmt.Sprintf("OnStart hook failed for %s", token), err)
			}
		}
	}

	m.mu.Lock()
	m.state = StateRunning
	m.mu.Unlock()

	return nil
}

// Stop runs OnStop hooks in reverse dependency order, then destroy hooks in
// reverse construction order, and releases the module-scope cache.
func (m *ModuleInjector) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return nil
	}
	m.state = StateStopping
	m.mu.Unlock()

	var errs []error

	order, err := m.graph.ShutdownOrder()
	if err != nil {
		errs = append(errs, err)
	}

	for _, token := range order {
		m.mu.RLock()
		p, exists := m.records[token]
		_, instantiated := m.instances[token]
		m.mu.RUnlock()

		if !exists || !instantiated {
			continue
		}

		for i := len(p.onStop) - 1; i >= 0; i-- {
			m.logf("running OnStop hook", "token", token.String())
			if hookErr := p.onStop[i](ctx); hookErr != nil {
				errs = append(errs, fmt.Errorf("OnStop hook failed for %s: %w", token, hookErr))
			}
		}
	}

	m.mu.Lock()
	stack := m.destroyStack
	m.destroyStack = nil
	m.instances = make(map[*Token]any)
	m.state = StateStopped
	m.mu.Unlock()

	for i := len(stack) - 1; i >= 0; i-- {
		entry := stack[i]
		for j := len(entry.hooks) - 1; j >= 0; j-- {
			entry.hooks[j](entry.instance)
		}
	}

	if len(errs) > 0 {
		return NewError(ErrCodeShutdownFailed, fmt.Sprintf("shutdown errors: %v", errs), nil)
	}
	return nil
}

func (m *ModuleInjector) chainFor(token *Token) []string {
	var chain []string
	active := false
	for _, t := range m.stack {
		if t == token {
			active = true
		}
		if active {
			chain = append(chain, t.String())
		}
	}
	return append(chain, token.String())
}

func (m *ModuleInjector) context() string {
	if m.parent == nil {
		return "module injector"
	}
	return "child module injector"
}

func (m *ModuleInjector) logf(msg string, args ...any) {
	m.config.Logger.Debug(msg, args...)
}

func (m *ModuleInjector) notifyResolve(token *Token, duration time.Duration, err error) {
	for _, hook := range m.config.OnResolve {
		hook(token, duration, err)
	}
}

func (m *ModuleInjector) notifyProvide(token *Token) {
	for _, hook := range m.config.OnProvide {
		hook(token)
	}
}

func (m *ModuleInjector) notifyInstantiate(token *Token, elem *Element) {
	for _, hook := range m.config.OnInstantiate {
		hook(token, elem)
	}
}
