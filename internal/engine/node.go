package engine

import "errors"

// Injector is the resolution surface shared by element and module scopes.
type Injector interface {
	Resolve(token *Token, flags Flags) (any, error)
	Has(token *Token) bool
}

// nodeRecord is one provider declaration installed at a node, tagged with
// its visibility class and, for occupants, the occupant index.
type nodeRecord struct {
	prov     Provider
	view     bool
	occupant int
}

type destroyEntry struct {
	token    *Token
	instance any
	hooks    []DestroyHook
}

// nodeInjector owns the providers declared at one element: public providers,
// view providers, and the element's occupants. It holds the per-scope
// instance cache and the in-construction sentinels.
type nodeInjector struct {
	elem         *Element
	records      map[*Token]*nodeRecord
	order        []*Token
	instances    map[*Token]any
	constructing map[*Token]bool
	stack        []*Token
	destroyStack []destroyEntry
	instantiated bool

	elementRef    *ElementRef
	templateRef   *TemplateRef
	viewContainer *ViewContainerRef
	changeDetect  *ChangeDetectorRef
}

func newNodeInjector(e *Element) *nodeInjector {
	n := &nodeInjector{
		elem:         e,
		records:      make(map[*Token]*nodeRecord),
		instances:    make(map[*Token]any),
		constructing: make(map[*Token]bool),
	}

	for _, p := range e.providers {
		n.install(p, false, -1)
	}
	for _, p := range e.viewProviders {
		n.install(p, true, -1)
	}
	for i, d := range e.occupants {
		n.install(Factory(d.Token, d.Factory, d.Deps...), false, i)
	}

	return n
}

// install applies last-wins declaration semantics: a token already declared
// at this scope is overwritten, never merged, across both visibility classes.
func (n *nodeInjector) install(p Provider, view bool, occupant int) {
	if p.token == nil {
		return
	}
	if _, exists := n.records[p.token]; !exists {
		n.order = append(n.order, p.token)
	}
	n.records[p.token] = &nodeRecord{prov: p, view: view, occupant: occupant}
}

// search looks the token up in this scope's declarations. fromChild is the
// element the walk ascended from (nil when the scope element is the origin
// itself); boundaryOnly restricts the search to view providers, which is the
// Host-flag rule at the boundary scope.
func (n *nodeInjector) search(r *request, fromChild *Element, boundaryOnly bool) (*nodeRecord, bool) {
	rec, ok := n.records[r.token]
	if !ok {
		return nil, false
	}

	if rec.view && !n.viewVisible(r, fromChild) {
		return nil, false
	}
	if boundaryOnly && !rec.view {
		return nil, false
	}

	return rec, true
}

// viewVisible decides whether this scope's view providers are reachable by
// the request: either the walk arrived from an element inside this scope's
// view, or the requester is the scope's own component (or a provider
// declared at the scope).
func (n *nodeInjector) viewVisible(r *request, fromChild *Element) bool {
	if fromChild != nil {
		return fromChild.viewHost == n.elem
	}

	if r.fromProvider {
		return true
	}
	return r.occupant >= 0 && r.occupant == n.elem.componentIdx
}

// construct returns the cached instance for the record or builds it,
// guarding the (scope, token) pair with the cycle sentinel. The sentinel is
// cleared on every exit path.
func (n *nodeInjector) construct(token *Token, rec *nodeRecord, flags Flags) (any, error) {
	if instance, ok := n.instances[token]; ok {
		return instance, nil
	}

	if n.constructing[token] {
		return nil, errCircularDependency(token, n.chainFor(token))
	}
	n.constructing[token] = true
	n.stack = append(n.stack, token)
	defer func() {
		delete(n.constructing, token)
		n.stack = n.stack[:len(n.stack)-1]
	}()

	if err := rec.prov.validate(); err != nil {
		return nil, err
	}

	var instance any
	switch rec.prov.kind {
	case valueKind:
		instance = rec.prov.value

	case aliasKind:
		// Alias resolution re-enters the full algorithm at this same
		// scope with the target token, preserving only Optional.
		target := &request{
			token:        rec.prov.aliasTarget,
			flags:        flags & Optional,
			origin:       n.elem,
			occupant:     -1,
			fromProvider: true,
		}
		v, err := target.run()
		if err != nil {
			return nil, err
		}
		instance = v

	case factoryKind:
		args, err := n.resolveDeps(token, rec)
		if err != nil {
			return nil, err
		}
		v, err := rec.prov.factory(args)
		if err != nil {
			return nil, errProviderFailed(token, err)
		}
		instance = v
	}

	n.instances[token] = instance
	n.destroyStack = append(n.destroyStack, destroyEntry{
		token:    token,
		instance: instance,
		hooks:    rec.prov.onDestroy,
	})

	if n.elem.module != nil {
		n.elem.module.notifyInstantiate(token, n.elem)
	}

	return instance, nil
}

// resolveDeps resolves a factory's declared dependencies in declared order,
// each with its own flags, relative to the scope the provider is declared
// at. Attribute dependencies read the element's own tag; absence is nil.
func (n *nodeInjector) resolveDeps(token *Token, rec *nodeRecord) ([]any, error) {
	if len(rec.prov.deps) == 0 {
		return nil, nil
	}

	args := make([]any, len(rec.prov.deps))
	for i, d := range rec.prov.deps {
		if d.Attr != "" {
			if v, ok := n.elem.Attribute(d.Attr); ok {
				args[i] = v
			}
			continue
		}

		dep := &request{
			token:        d.Token,
			flags:        d.Flags,
			origin:       n.elem,
			occupant:     rec.occupant,
			fromProvider: rec.occupant < 0,
		}
		v, err := dep.run()
		if err != nil {
			if isCode(err, ErrCodeCircularDependency) {
				return nil, err
			}
			return nil, errDependencyFailed(token, d.Token, err)
		}
		args[i] = v
	}

	return args, nil
}

// instantiate constructs the element's occupants in declaration order.
func (n *nodeInjector) instantiate() error {
	if n.instantiated {
		return nil
	}
	n.instantiated = true

	for i, occ := range n.elem.occupants {
		r := &request{
			token:    occ.Token,
			flags:    Default,
			origin:   n.elem,
			occupant: i,
		}
		if _, err := r.run(); err != nil {
			return err
		}
	}

	return nil
}

func (n *nodeInjector) cached(token *Token) (any, bool) {
	instance, ok := n.instances[token]
	return instance, ok
}

// destroy runs destroy hooks in reverse instantiation order and releases the
// cache.
func (n *nodeInjector) destroy() {
	for i := len(n.destroyStack) - 1; i >= 0; i-- {
		entry := n.destroyStack[i]
		for j := len(entry.hooks) - 1; j >= 0; j-- {
			entry.hooks[j](entry.instance)
		}
	}

	n.destroyStack = nil
	n.instances = make(map[*Token]any)
	n.constructing = make(map[*Token]bool)
	n.stack = nil
}

func (n *nodeInjector) chainFor(token *Token) []string {
	var chain []string
	active := false
	for _, t := range n.stack {
		if t == token {
			active = true
		}
		if active {
			chain = append(chain, t.String())
		}
	}
	return append(chain, token.String())
}

// elementInjector is the public resolution surface for one element. It
// remembers the originating element so that visibility rules apply from the
// requester's position even when the owning scope is an ancestor.
type elementInjector struct {
	elem  *Element
	scope *Element
}

func (i *elementInjector) Resolve(token *Token, flags Flags) (any, error) {
	return i.elem.ResolveFor(-1, token, flags)
}

func (i *elementInjector) Has(token *Token) bool {
	r := &request{token: token, flags: Optional, origin: i.elem, occupant: -1}
	return r.probe()
}

// Scope returns the element owning the declarations this injector searches
// first.
func (i *elementInjector) Scope() *Element {
	return i.scope
}

// Origin returns the element requests through this injector originate from.
// It differs from Scope when the origin has no injector of its own.
func (i *elementInjector) Origin() *Element {
	return i.elem
}

func isCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
