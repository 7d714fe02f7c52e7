package arbor

import "github.com/danvale/arbor/internal/engine"

// Element is one record in the tree consumed from the tree-builder: a tag,
// static attributes, a parent, a view host, occupants, and provider
// declarations in two visibility classes.
type Element = engine.Element

// Directive is one occupant of an element: a constructor-like factory with
// declared dependencies, identified by its token.
type Directive = engine.Directive

// ElementOption configures an element record at construction.
type ElementOption = engine.ElementOption

// NewElement builds an element record. The view host defaults to the parent
// when the parent is a host boundary and to the parent's own view host
// otherwise; projected (light-DOM) content overrides it with InViewOf.
func NewElement(tag string, opts ...ElementOption) *Element {
	return engine.NewElement(tag, opts...)
}

// WithParent attaches the element under a parent record.
func WithParent(parent *Element) ElementOption {
	return engine.WithParent(parent)
}

// InViewOf pins the component whose view contains this element, overriding
// the default derived from the parent.
func InViewOf(host *Element) ElementOption {
	return engine.InViewOf(host)
}

// AsHost marks the element as a component host boundary.
func AsHost() ElementOption {
	return engine.AsHost()
}

// WithTemplate marks a structural element carrying an embedded template.
func WithTemplate() ElementOption {
	return engine.WithTemplate()
}

// WithAttributes sets the element's static attributes.
func WithAttributes(attrs map[string]string) ElementOption {
	return engine.WithAttributes(attrs)
}

// WithProviders declares providers visible to the element, its occupants,
// and its descendants.
func WithProviders(providers ...Provider) ElementOption {
	return engine.WithProviders(providers...)
}

// WithViewProviders declares providers visible only inside the element's
// own view, not to projected descendants.
func WithViewProviders(providers ...Provider) ElementOption {
	return engine.WithViewProviders(providers...)
}

// WithDirectives attaches directive occupants, in declaration order.
func WithDirectives(directives ...Directive) ElementOption {
	return engine.WithDirectives(directives...)
}

// WithComponent attaches the host component occupant and marks the element
// as a host boundary.
func WithComponent(component Directive) ElementOption {
	return engine.WithComponent(component)
}

// WithModule binds the element (and, through inheritance, its subtree) to a
// module injector. Usually applied only to the root element.
func WithModule(m *ModuleInjector) ElementOption {
	return engine.WithModule(m)
}
