package engine

import "time"

// request carries one resolution attempt: the token, its modifiers, the
// element it was issued from, and which occupant (if any) issued it.
// Resolution is a plain synchronous recursion; a request either returns,
// fails, or recurses into a parent scope or a dependency's own resolution.
type request struct {
	token        *Token
	flags        Flags
	origin       *Element
	occupant     int
	fromProvider bool
}

// ResolveFor resolves a token on behalf of one of the element's occupants.
// occupant is the index of the requesting occupant, or -1 for requests made
// outside any occupant.
func (e *Element) ResolveFor(occupant int, token *Token, flags Flags) (any, error) {
	start := time.Now()

	v, err := e.resolveFor(occupant, token, flags)
	if e.module != nil {
		e.module.notifyResolve(token, time.Since(start), err)
	}
	return v, err
}

// Resolve resolves a token from this element's position in the tree.
func (e *Element) Resolve(token *Token, flags Flags) (any, error) {
	return e.ResolveFor(-1, token, flags)
}

func (e *Element) resolveFor(occupant int, token *Token, flags Flags) (any, error) {
	if e.destroyed {
		return nil, errScopeDestroyed(e.context())
	}
	if token == nil {
		return nil, errInvalidProvider(nil, "resolve called with nil token")
	}

	r := &request{
		token:    token,
		flags:    flags,
		origin:   e,
		occupant: occupant,
	}
	return r.run()
}

// run is the walking algorithm shared by every element-originated request:
// local search, ancestor ascent, module fallback, then exhaustion.
func (r *request) run() (any, error) {
	if r.token.special() {
		return r.synthesize()
	}

	skip := r.flags.Has(Self) && r.flags.Has(SkipSelf)
	if !skip {
		if v, found, err := r.walk(); found || err != nil {
			return v, err
		}
	}

	// Self restricts to the element walk; Host caps it at the boundary
	// with no module fallback.
	if !r.flags.Has(Self) && !r.flags.Has(Host) {
		if m := r.origin.module; m != nil {
			if v, found, err := m.lookup(r.token); found || err != nil {
				return v, err
			}
		}
	}

	return r.exhausted()
}

// walk ascends the element tree from the origin, searching each scope the
// walk enters. It tracks the element it ascended from so that each scope can
// apply its view-provider visibility rule.
func (r *request) walk() (any, bool, error) {
	boundary := r.hostElement()
	skipFirst := r.flags.Has(SkipSelf)

	var fromChild *Element
	for cur := r.origin; cur != nil; cur = cur.parent {
		if cur.needsInjector() {
			if skipFirst {
				skipFirst = false
				if r.flags.Has(Self) {
					return nil, false, nil
				}
			} else {
				boundaryOnly := r.flags.Has(Host) && cur == boundary && cur != r.origin
				node := cur.injector()
				if rec, ok := node.search(r, fromChild, boundaryOnly); ok {
					v, err := node.construct(r.token, rec, r.flags)
					return v, true, err
				}
				if r.flags.Has(Self) {
					return nil, false, nil
				}
			}
		}

		if r.flags.Has(Host) && cur == boundary {
			return nil, false, nil
		}

		fromChild = cur
	}

	return nil, false, nil
}

// probe reports whether the walk (or the module chain) would find a
// declaration, without constructing anything.
func (r *request) probe() bool {
	if r.token.special() {
		v, err := r.synthesize()
		return err == nil && v != nil
	}

	boundary := r.hostElement()
	skipFirst := r.flags.Has(SkipSelf)

	var fromChild *Element
	for cur := r.origin; cur != nil; cur = cur.parent {
		if cur.needsInjector() {
			if skipFirst {
				skipFirst = false
				if r.flags.Has(Self) {
					return false
				}
			} else {
				boundaryOnly := r.flags.Has(Host) && cur == boundary && cur != r.origin
				if _, ok := cur.injector().search(r, fromChild, boundaryOnly); ok {
					return true
				}
				if r.flags.Has(Self) {
					return false
				}
			}
		}

		if r.flags.Has(Host) && cur == boundary {
			return false
		}

		fromChild = cur
	}

	if !r.flags.Has(Self) && !r.flags.Has(Host) && r.origin.module != nil {
		return r.origin.module.Has(r.token)
	}
	return false
}

// hostElement is the nearest component host boundary governing the request:
// the origin itself when the requester is the origin's own component (or a
// provider declared at a host element), otherwise the host of the view the
// origin sits in.
func (r *request) hostElement() *Element {
	if !r.flags.Has(Host) {
		return nil
	}

	if r.origin.hostBoundary {
		if r.occupant >= 0 && r.occupant == r.origin.componentIdx {
			return r.origin
		}
		if r.fromProvider {
			return r.origin
		}
	}
	return r.origin.viewHost
}

func (r *request) exhausted() (any, error) {
	if r.flags.Has(Optional) {
		return nil, nil
	}
	return nil, errNoProvider(r.token, r.origin.occupantContext(r.occupant))
}

// synthesize intercepts the built-in tokens before the declaration search.
// Self and SkipSelf apply to the scope the token would have been found in;
// Optional turns absence into nil.
func (r *request) synthesize() (any, error) {
	scope := r.origin.scopeElement()
	if r.flags.Has(SkipSelf) && scope != nil {
		next := scope.parent
		if next != nil {
			scope = next.scopeElement()
		} else {
			scope = nil
		}
	}

	switch r.token.kind {
	case injectorTokenKind:
		if scope != nil {
			return &elementInjector{elem: scope, scope: scope}, nil
		}
		if m := r.moduleScope(); m != nil {
			return m, nil
		}

	case elementRefTokenKind:
		if scope != nil {
			node := scope.injector()
			if node.elementRef == nil {
				node.elementRef = &ElementRef{elem: scope}
			}
			return node.elementRef, nil
		}

	case templateRefTokenKind:
		// The embedded-view factory handle exists only on the structural
		// element itself; template requests never ascend.
		if scope != nil && scope.template {
			node := scope.injector()
			if node.templateRef == nil {
				node.templateRef = &TemplateRef{elem: scope}
			}
			return node.templateRef, nil
		}

	case viewContainerTokenKind:
		if scope != nil {
			node := scope.injector()
			if node.viewContainer == nil {
				node.viewContainer = &ViewContainerRef{anchor: scope}
			}
			return node.viewContainer, nil
		}

	case changeDetectorTokenKind:
		host := r.nearestHost()
		if r.flags.Has(SkipSelf) && host != nil {
			host = host.viewHost
		}
		if r.flags.Has(Self) && host != r.origin.scopeElement() {
			host = nil
		}
		if host != nil {
			node := host.injector()
			if node.changeDetect == nil {
				node.changeDetect = &ChangeDetectorRef{host: host}
			}
			return node.changeDetect, nil
		}
	}

	return r.exhausted()
}

// nearestHost is the component scope governing the origin's view.
func (r *request) nearestHost() *Element {
	if r.origin.hostBoundary {
		if r.fromProvider || (r.occupant >= 0 && r.occupant == r.origin.componentIdx) {
			return r.origin
		}
	}
	return r.origin.viewHost
}

// moduleScope is the module injector the request falls back to, adjusted
// for SkipSelf when the request already starts at module scope.
func (r *request) moduleScope() *ModuleInjector {
	m := r.origin.module
	if m == nil {
		return nil
	}
	if r.flags.Has(SkipSelf) && r.origin.scopeElement() == nil {
		return m.parent
	}
	return m
}
