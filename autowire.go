package arbor

import (
	"fmt"
	reflectPkg "reflect"

	"github.com/danvale/arbor/internal/reflect"
)

// TagKey is the struct tag scanned by InjectStruct.
const TagKey = "arbor"

// InjectStruct builds a T and fills its tagged fields by resolving the
// token derived from each field's type against the injector. The tag value
// carries per-field modifiers:
//
//	DB    *Database `arbor:""`               // inject by type
//	Log   *Logger   `arbor:",optional"`      // nil when absent
//	Title string    `arbor:"attr=title"`     // static attribute of the element
//
// Attribute fields require an element injector; they read the requesting
// element's own tag.
func InjectStruct[T any](i Injector) (T, error) {
	var zero T

	t := reflectPkg.TypeOf(zero)
	if t == nil {
		t = reflectPkg.TypeOf((*T)(nil)).Elem()
	}
	isPtr := t.Kind() == reflectPkg.Ptr
	if isPtr {
		t = t.Elem()
	}

	if t.Kind() != reflectPkg.Struct {
		return zero, fmt.Errorf("InjectStruct requires a struct type, got %s", t.Kind())
	}

	fields, err := reflect.StructFields(t, TagKey)
	if err != nil {
		return zero, err
	}

	structVal := reflectPkg.New(t).Elem()

	for _, field := range fields {
		fieldVal := structVal.Field(field.Index)
		if !fieldVal.CanSet() {
			return zero, fmt.Errorf("cannot set field %s (unexported)", field.Name)
		}

		if field.Attr != "" {
			elem, ok := elementOf(i)
			if !ok {
				return zero, fmt.Errorf("field %s: attribute injection requires an element injector", field.Name)
			}
			if v, present := elem.Attribute(field.Attr); present {
				fieldVal.SetString(v)
			}
			continue
		}

		token := reflect.TokenForType(field.Type)
		instance, err := i.Resolve(token, field.Flags)
		if err != nil {
			return zero, err
		}
		if instance == nil {
			continue
		}

		instanceVal := reflectPkg.ValueOf(instance)
		if !instanceVal.Type().AssignableTo(fieldVal.Type()) {
			return zero, fmt.Errorf(
				"cannot assign %s to field %s of type %s",
				instanceVal.Type(), field.Name, fieldVal.Type(),
			)
		}
		fieldVal.Set(instanceVal)
	}

	if isPtr {
		ptr := reflectPkg.New(t)
		ptr.Elem().Set(structVal)
		return ptr.Interface().(T), nil
	}

	return structVal.Interface().(T), nil
}

// MustInjectStruct is InjectStruct, panicking on failure.
func MustInjectStruct[T any](i Injector) T {
	v, err := InjectStruct[T](i)
	if err != nil {
		panic(err)
	}
	return v
}

// StructDirective builds a directive whose factory fills a *T via
// InjectStruct, keyed by the token derived from *T. The injector arrives as
// a declared dependency, so the fields resolve from the element the
// directive is attached to.
func StructDirective[T any]() Directive {
	return Directive{
		Token: TypeToken[*T](),
		Deps:  []Dep{DepOf(InjectorToken)},
		Factory: func(deps []any) (any, error) {
			return InjectStruct[*T](deps[0].(Injector))
		},
	}
}

func elementOf(i Injector) (*Element, bool) {
	type origin interface {
		Origin() *Element
	}
	if s, ok := i.(origin); ok {
		return s.Origin(), true
	}
	return nil, false
}
