package reflect

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/muir/reflectutils"

	"github.com/danvale/arbor/internal/engine"
)

var tokenCache sync.Map

// TokenForType returns the identity token derived from a Go type. The same
// type always yields the same token, so type-derived tokens are safe to use
// from independent call sites.
func TokenForType(t reflect.Type) *engine.Token {
	if cached, ok := tokenCache.Load(t); ok {
		return cached.(*engine.Token)
	}

	tok := engine.NewToken(reflectutils.TypeName(t))
	actual, _ := tokenCache.LoadOrStore(t, tok)
	return actual.(*engine.Token)
}

func TypeToken[T any]() *engine.Token {
	return TokenForType(reflect.TypeOf((*T)(nil)).Elem())
}

func TypeName[T any]() string {
	return reflectutils.TypeName(reflect.TypeOf((*T)(nil)).Elem())
}

// Field describes one injectable struct field discovered by tag scanning.
type Field struct {
	Name  string
	Index int
	Type  reflect.Type
	Flags engine.Flags
	Attr  string
}

// StructFields scans a struct type for fields carrying the tag key. The tag
// value is "[attr=NAME][,optional][,self][,skipself][,host]"; a bare tag
// injects by the field's type. Fields tagged "-" and untagged fields are
// skipped.
func StructFields(t reflect.Type, tagKey string) ([]Field, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct type, got %s", t.Kind())
	}

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(tagKey)
		if !ok || tag == "-" {
			continue
		}

		field := Field{
			Name:  sf.Name,
			Index: i,
			Type:  sf.Type,
		}

		for j, part := range strings.Split(tag, ",") {
			switch {
			case j == 0 && strings.HasPrefix(part, "attr="):
				field.Attr = strings.TrimPrefix(part, "attr=")
			case j == 0 && part == "":
				// inject by type
			case part == "optional":
				field.Flags |= engine.Optional
			case part == "self":
				field.Flags |= engine.Self
			case part == "skipself":
				field.Flags |= engine.SkipSelf
			case part == "host":
				field.Flags |= engine.Host
			case part == "":
			default:
				return nil, fmt.Errorf("field %s: unknown tag option %q", sf.Name, part)
			}
		}

		if field.Attr != "" && sf.Type.Kind() != reflect.String {
			return nil, fmt.Errorf("field %s: attribute injection requires a string field", sf.Name)
		}

		fields = append(fields, field)
	}

	return fields, nil
}

// IsNil reports whether a value is nil, including typed nils inside
// interfaces.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
