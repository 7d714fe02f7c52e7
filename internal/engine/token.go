package engine

type tokenKind uint8

const (
	userToken tokenKind = iota
	injectorTokenKind
	elementRefTokenKind
	templateRefTokenKind
	viewContainerTokenKind
	changeDetectorTokenKind
)

// Token identifies a requestable capability. Tokens compare by identity:
// two tokens created with the same name are distinct keys, and the name is
// only ever used for diagnostics.
type Token struct {
	name string
	kind tokenKind
}

func NewToken(name string) *Token {
	return &Token{name: name}
}

func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// Built-in tokens are synthesized by the resolver before the declaration
// search; they are never satisfied by user-declared providers.
var (
	InjectorToken       = &Token{name: "Injector", kind: injectorTokenKind}
	ElementRefToken     = &Token{name: "ElementRef", kind: elementRefTokenKind}
	TemplateRefToken    = &Token{name: "TemplateRef", kind: templateRefTokenKind}
	ViewContainerToken  = &Token{name: "ViewContainerRef", kind: viewContainerTokenKind}
	ChangeDetectorToken = &Token{name: "ChangeDetectorRef", kind: changeDetectorTokenKind}
)

func (t *Token) special() bool {
	return t.kind != userToken
}
