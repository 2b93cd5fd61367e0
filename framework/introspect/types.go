package introspect

import (
	"fmt"
	"reflect"
)

// TypeName returns the package-qualified name of t, useful as a stable key
// for types and interfaces. Pointers are dereferenced; predeclared and
// unnamed types use their Go syntax.
//
//	introspect.TypeName(reflect.TypeOf(&Mailer{}))  // "example.com/app.Mailer"
//	introspect.TypeName(reflect.TypeOf(0))          // "int"
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// NameOf is TypeName for a type parameter.
//
//	key := introspect.NameOf[Mailer]()
func NameOf[T any]() string {
	return TypeName(reflect.TypeFor[T]())
}

// IsBuiltin reports whether t is a primitive or otherwise built-in type:
// scalar kinds (including named ones such as time.Duration) and every type
// without a package path ([]string, map[string]any, error).
func IsBuiltin(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if isScalar(t.Kind()) {
		return true
	}
	return t.PkgPath() == ""
}

// isUntyped reports whether t carries no static information (any).
func isUntyped(t reflect.Type) bool {
	return t == nil || (t.Kind() == reflect.Interface && t.NumMethod() == 0)
}

// Coerce converts v into a value assignable to t:
//   - nil becomes the zero value of t;
//   - assignable values pass through;
//   - pointers are dereferenced when t wants the element;
//   - values are boxed when t wants a pointer to them;
//   - numeric kinds convert among themselves, as do string kinds.
func Coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	rt := rv.Type()

	switch {
	case rt.AssignableTo(t):
		return rv, nil
	case rt.Kind() == reflect.Pointer && !rv.IsNil() && rt.Elem().AssignableTo(t):
		return rv.Elem(), nil
	case t.Kind() == reflect.Pointer && rt.AssignableTo(t.Elem()):
		p := reflect.New(t.Elem())
		p.Elem().Set(rv)
		return p, nil
	case isNumeric(rt.Kind()) && isNumeric(t.Kind()),
		rt.Kind() == reflect.String && t.Kind() == reflect.String,
		rt.Kind() == reflect.Bool && t.Kind() == reflect.Bool:
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", ErrTypeMismatch, rt, t)
}

func isScalar(k reflect.Kind) bool {
	return isNumeric(k) || k == reflect.Bool || k == reflect.String ||
		k == reflect.Complex64 || k == reflect.Complex128
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
