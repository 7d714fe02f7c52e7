package engine

import (
	"fmt"
	"strings"
)

// Directive is one occupant of an element: a constructor-like factory with
// declared dependencies, identified by its token. The component hosting an
// element is a directive occupant like any other; only its visibility into
// view providers differs.
type Directive struct {
	Token   *Token
	Factory FactoryFunc
	Deps    []Dep
}

// Element is a node in the tree of element records consumed from the
// tree-builder. Parent and view-host references are non-owning back
// references; an element never outlives its ancestors.
type Element struct {
	tag           string
	parent        *Element
	children      []*Element
	viewHost      *Element
	hostBoundary  bool
	template      bool
	attrs         map[string]string
	occupants     []Directive
	componentIdx  int
	providers     []Provider
	viewProviders []Provider
	module        *ModuleInjector
	node          *nodeInjector
	destroyed     bool
}

type ElementOption func(*Element)

// NewElement builds an element record. The view host defaults to the parent
// when the parent is a host boundary and to the parent's own view host
// otherwise; projected (light-DOM) content overrides it with InViewOf.
func NewElement(tag string, opts ...ElementOption) *Element {
	e := &Element{
		tag:          tag,
		componentIdx: -1,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.parent != nil {
		e.parent.children = append(e.parent.children, e)
		if e.module == nil {
			e.module = e.parent.module
		}
		if e.viewHost == nil {
			if e.parent.hostBoundary {
				e.viewHost = e.parent
			} else {
				e.viewHost = e.parent.viewHost
			}
		}
	}

	return e
}

func WithParent(parent *Element) ElementOption {
	return func(e *Element) {
		e.parent = parent
	}
}

// InViewOf pins the component whose view contains this element, overriding
// the default derived from the parent. Projected content passes the host of
// the view it was declared in, not the element it ends up under.
func InViewOf(host *Element) ElementOption {
	return func(e *Element) {
		e.viewHost = host
	}
}

// AsHost marks the element as a component host boundary.
func AsHost() ElementOption {
	return func(e *Element) {
		e.hostBoundary = true
	}
}

// WithTemplate marks a structural element carrying an embedded template.
func WithTemplate() ElementOption {
	return func(e *Element) {
		e.template = true
	}
}

func WithAttributes(attrs map[string]string) ElementOption {
	return func(e *Element) {
		if e.attrs == nil {
			e.attrs = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			e.attrs[k] = v
		}
	}
}

func WithProviders(providers ...Provider) ElementOption {
	return func(e *Element) {
		e.providers = append(e.providers, providers...)
	}
}

func WithViewProviders(providers ...Provider) ElementOption {
	return func(e *Element) {
		e.viewProviders = append(e.viewProviders, providers...)
	}
}

func WithDirectives(directives ...Directive) ElementOption {
	return func(e *Element) {
		e.occupants = append(e.occupants, directives...)
	}
}

// WithComponent attaches the host component occupant and marks the element
// as a host boundary.
func WithComponent(component Directive) ElementOption {
	return func(e *Element) {
		e.hostBoundary = true
		e.componentIdx = len(e.occupants)
		e.occupants = append(e.occupants, component)
	}
}

// WithModule binds the element (and, through inheritance, its subtree) to a
// module injector. Usually applied only to the root element.
func WithModule(m *ModuleInjector) ElementOption {
	return func(e *Element) {
		e.module = m
	}
}

func (e *Element) Tag() string {
	return e.tag
}

func (e *Element) Parent() *Element {
	return e.parent
}

func (e *Element) ViewHost() *Element {
	return e.viewHost
}

func (e *Element) IsHost() bool {
	return e.hostBoundary
}

func (e *Element) HasTemplate() bool {
	return e.template
}

func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

func (e *Element) Module() *ModuleInjector {
	return e.module
}

// Attribute resolves an attribute-style request against the element's own
// tag. It never ascends and never consults providers; absence is not an
// error. Attributes spelled as bindings or event handlers, and attributes
// with a non-default namespace prefix, are excluded even if present.
func (e *Element) Attribute(name string) (string, bool) {
	if !isStaticAttribute(name) {
		return "", false
	}

	v, ok := e.attrs[name]
	if !ok {
		return "", false
	}
	return v, true
}

// isStaticAttribute rejects names carrying a binding or event syntactic
// marker, and names with a namespace prefix.
func isStaticAttribute(name string) bool {
	if name == "" {
		return false
	}

	switch name[0] {
	case '[', '(', '*', '#':
		return false
	}

	for _, prefix := range []string{"bind-", "on-", "ref-", "let-"} {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}

	return !strings.Contains(name, ":")
}

// needsInjector reports whether the tree-builder determined this node needs
// its own injector: it has providers, occupants, a component boundary, or a
// template.
func (e *Element) needsInjector() bool {
	return e.hostBoundary ||
		e.template ||
		len(e.occupants) > 0 ||
		len(e.providers) > 0 ||
		len(e.viewProviders) > 0
}

// injector materializes the element's own node injector, lazily.
func (e *Element) injector() *nodeInjector {
	if e.node == nil {
		e.node = newNodeInjector(e)
		if e.module != nil {
			e.module.logf("element injector created", "element", e.tag)
		}
	}
	return e.node
}

// scopeElement finds the nearest self-or-ancestor element that owns an
// injector scope, or nil when resolution falls straight through to the
// module injector.
func (e *Element) scopeElement() *Element {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.needsInjector() {
			return cur
		}
	}
	return nil
}

// Injector returns the resolution surface for this element: its own scope,
// the nearest ancestor scope, or the module injector. An element with
// neither still gets a usable surface; every lookup through it exhausts.
func (e *Element) Injector() Injector {
	if scope := e.scopeElement(); scope != nil {
		return &elementInjector{elem: e, scope: scope}
	}
	if e.module != nil {
		return e.module
	}
	return &elementInjector{elem: e}
}

// Instantiate constructs the element's occupants in declaration order.
// Dependencies between occupants are constructed first-use-recursively, so
// an occupant declared later but depended upon earlier constructs first.
func (e *Element) Instantiate() error {
	if e.destroyed {
		return errScopeDestroyed(e.context())
	}
	if !e.needsInjector() {
		return nil
	}
	return e.injector().instantiate()
}

// Instance returns the cached instance for a token constructed at this
// element's own scope, without triggering construction.
func (e *Element) Instance(token *Token) (any, bool) {
	if e.node == nil {
		return nil, false
	}
	return e.node.cached(token)
}

// Destroy tears down the element's subtree, then its own scope: destroy
// hooks run in reverse instantiation order and the per-scope cache is
// released. Destroy is idempotent.
func (e *Element) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true

	for i := len(e.children) - 1; i >= 0; i-- {
		e.children[i].Destroy()
	}

	if e.node != nil {
		e.node.destroy()
		e.node = nil
	}

	if e.module != nil {
		e.module.logf("element destroyed", "element", e.tag)
	}
}

func (e *Element) Destroyed() bool {
	return e.destroyed
}

// context names the element for error messages.
func (e *Element) context() string {
	return fmt.Sprintf("<%s>", e.tag)
}

func (e *Element) occupantContext(idx int) string {
	if idx >= 0 && idx < len(e.occupants) {
		return fmt.Sprintf("<%s> directive %s", e.tag, e.occupants[idx].Token)
	}
	return e.context()
}
