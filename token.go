package arbor

import (
	"github.com/danvale/arbor/internal/engine"
	"github.com/danvale/arbor/internal/reflect"
)

// Token identifies a requestable capability. Tokens compare by identity:
// two tokens created with the same name are distinct keys.
type Token = engine.Token

// NewToken creates a fresh token. The name is used only for diagnostics.
func NewToken(name string) *Token {
	return engine.NewToken(name)
}

// TypeToken derives a token from a Go type. The same type always yields the
// same token, so independent packages can share a key without sharing a
// variable.
func TypeToken[T any]() *Token {
	return reflect.TypeToken[T]()
}

// Built-in tokens, synthesized by the resolver before the declaration
// search.
var (
	// InjectorToken resolves to the injector at the requesting scope.
	InjectorToken = engine.InjectorToken
	// ElementRefToken resolves to the per-element reference handle.
	ElementRefToken = engine.ElementRefToken
	// TemplateRefToken resolves to the embedded-view factory handle of a
	// structural element.
	TemplateRefToken = engine.TemplateRefToken
	// ViewContainerToken resolves to the view container anchored at the
	// requesting element.
	ViewContainerToken = engine.ViewContainerToken
	// ChangeDetectorToken resolves to the change-detection handle of the
	// nearest component scope.
	ChangeDetectorToken = engine.ChangeDetectorToken
)

// Handle types returned by the built-in tokens.
type (
	ElementRef        = engine.ElementRef
	TemplateRef       = engine.TemplateRef
	ViewContainerRef  = engine.ViewContainerRef
	ChangeDetectorRef = engine.ChangeDetectorRef
)
