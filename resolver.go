package arbor

import (
	"fmt"

	"github.com/danvale/arbor/internal/engine"
	"github.com/danvale/arbor/internal/reflect"
)

// Injector is the resolution surface shared by element injectors and module
// injectors.
type Injector = engine.Injector

// Get resolves a token and asserts the result type. With Optional set, an
// absent token yields the zero value and a nil error.
func Get[T any](i Injector, token *Token, flags ...Flags) (T, error) {
	var zero T

	f := combine(flags)
	v, err := i.Resolve(token, f)
	if err != nil {
		return zero, err
	}
	if v == nil {
		if f.Has(Optional) {
			return zero, nil
		}
		return zero, errTypeMismatch[T](token, v)
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errTypeMismatch[T](token, v)
	}
	return typed, nil
}

// MustGet is Get, panicking on failure.
func MustGet[T any](i Injector, token *Token, flags ...Flags) T {
	v, err := Get[T](i, token, flags...)
	if err != nil {
		panic(err)
	}
	return v
}

// TryGet resolves a token, reporting success instead of returning an error.
func TryGet[T any](i Injector, token *Token, flags ...Flags) (T, bool) {
	v, err := Get[T](i, token, flags...)
	return v, err == nil
}

// GetByType resolves the token derived from T itself.
func GetByType[T any](i Injector, flags ...Flags) (T, error) {
	return Get[T](i, TypeToken[T](), flags...)
}

// Has reports whether a declaration for the token is reachable from the
// injector, without constructing anything.
func Has(i Injector, token *Token) bool {
	return i.Has(token)
}

// GetAttribute resolves an attribute-style request against the element's
// own tag: the literal string value, or absence. It never ascends and never
// consults providers.
func GetAttribute(e *Element, name string) (string, bool) {
	return e.Attribute(name)
}

func errTypeMismatch[T any](token *Token, v any) *Error {
	return engine.NewError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("resolved value %T is not %s", v, reflect.TypeName[T]()),
		nil,
	).WithToken(token.String())
}
