package container

import "reflect"

// ── Binding kinds ─────────────────────────────────────────────────────────────

// Kind identifies how a binding produces its result.
type Kind int

const (
	// KindValue returns its payload as-is, or builds a TypeRef fresh.
	KindValue Kind = iota + 1
	// KindClass invokes its factory (or builds its TypeRef) on every lookup.
	KindClass
	// KindInstance returns a prebuilt object, or memoizes its factory.
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// ── Payloads ──────────────────────────────────────────────────────────────────

// Factory builds a result from the container.
//
//	c.BindClass("mailer", container.Factory(func(c *container.Container) (any, error) {
//	    host, err := container.Resolve[string](c, "mail.host")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &SMTPMailer{Host: host}, nil
//	}))
type Factory func(c *Container) (any, error)

// Extender post-processes a resolved result. Extenders run in registration
// order on every Get.
type Extender func(v any, c *Container) (any, error)

// TypeRef names a constructible type. It is handed to the container's
// Instantiator when the binding is evaluated.
type TypeRef string

// Instantiator builds types by name with no arguments. The introspection
// catalog is the usual implementation.
type Instantiator interface {
	Constructible(name string) bool
	Instantiate(name string) (any, error)
}

type payloadTag int

const (
	tagLiteral payloadTag = iota
	tagFactory
	tagTypeRef
)

// binding is a single registered entry. The payload tag is decided once, at
// bind time.
type binding struct {
	kind    Kind
	tag     payloadTag
	raw     any
	factory Factory
	ref     TypeRef
}

// classify tags a payload. Plain strings count as a TypeRef only when the
// instantiator knows them.
func (c *Container) classify(kind Kind, v any) *binding {
	b := &binding{kind: kind, tag: tagLiteral, raw: v}
	switch p := v.(type) {
	case Factory:
		if p != nil {
			b.tag, b.factory = tagFactory, p
		}
	case func(*Container) (any, error):
		if p != nil {
			b.tag, b.factory = tagFactory, p
		}
	case func(*Container) any:
		if p != nil {
			b.tag, b.factory = tagFactory, func(c *Container) (any, error) { return p(c), nil }
		}
	case TypeRef:
		b.tag, b.ref = tagTypeRef, p
	case string:
		if c.instantiator != nil && c.instantiator.Constructible(p) {
			b.tag, b.ref = tagTypeRef, TypeRef(p)
		}
	}
	return b
}

// isObject reports whether v is an already-built object rather than a
// literal or a callable.
func isObject(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Pointer, reflect.Struct, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// isCallable reports whether v is one of the accepted factory shapes.
func isCallable(v any) bool {
	switch p := v.(type) {
	case Factory:
		return p != nil
	case func(*Container) (any, error):
		return p != nil
	case func(*Container) any:
		return p != nil
	default:
		return false
	}
}
