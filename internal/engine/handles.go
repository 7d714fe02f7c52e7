package engine

// ElementRef is the per-element reference handle. One distinct handle exists
// per element injector; handles are never shared across scopes.
type ElementRef struct {
	elem *Element
}

func (r *ElementRef) Element() *Element {
	return r.elem
}

func (r *ElementRef) Tag() string {
	return r.elem.tag
}

// TemplateRef is the embedded-view factory handle of a structural element.
// It is synthesized only for elements declared with a template.
type TemplateRef struct {
	elem *Element
}

func (r *TemplateRef) Element() *Element {
	return r.elem
}

// ViewContainerRef anchors embedded views at an element.
type ViewContainerRef struct {
	anchor *Element
}

func (r *ViewContainerRef) Anchor() *Element {
	return r.anchor
}

// ChangeDetectorRef is the change-detection handle for the nearest component
// scope. Scheduling itself is external; the handle only pins the scope.
type ChangeDetectorRef struct {
	host *Element
}

func (r *ChangeDetectorRef) Host() *Element {
	return r.host
}
