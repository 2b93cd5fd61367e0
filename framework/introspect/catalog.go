package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrUnknownType is returned for names the catalog has never seen.
	ErrUnknownType = errors.New("introspect: unknown type")
	// ErrInvalidConstructor is returned by Register for values that are
	// neither constructor functions nor struct prototypes.
	ErrInvalidConstructor = errors.New("introspect: invalid constructor")
	// ErrParamCount is returned when declared names do not match the arity.
	ErrParamCount = errors.New("introspect: parameter name count mismatch")
	// ErrUnknownParam is returned for directives or defaults naming a
	// parameter the signature does not have.
	ErrUnknownParam = errors.New("introspect: unknown parameter")
	// ErrNoMethod is returned by MethodOf when the receiver lacks the method.
	ErrNoMethod = errors.New("introspect: no such method")
	// ErrNeedsArguments is returned by Instantiate for constructors that
	// take parameters.
	ErrNeedsArguments = errors.New("introspect: constructor needs arguments")
	// ErrTypeMismatch is returned by Coerce.
	ErrTypeMismatch = errors.New("introspect: type mismatch")
)

// ── Options ───────────────────────────────────────────────────────────────────

// Option adjusts a registration.
type Option func(*options)

type options struct {
	name       string
	params     []string
	directives []Directive
	defaults   map[string]any
}

// As registers the constructor under name instead of its type name.
func As(name string) Option {
	return func(o *options) { o.name = name }
}

// Params names the parameters of a function, in declaration order.
func Params(names ...string) Option {
	return func(o *options) { o.params = names }
}

// Inject declares that param is injected from the binding key.
func Inject(key, param string) Option {
	return func(o *options) { o.directives = append(o.directives, Directive{Key: key, Param: param}) }
}

// Default declares the value param takes when nothing resolves it.
func Default(param string, v any) Option {
	return func(o *options) {
		if o.defaults == nil {
			o.defaults = make(map[string]any)
		}
		o.defaults[param] = v
	}
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// apply merges directives and defaults into sig after checking that every
// parameter they mention exists.
func (o *options) apply(sig *Signature) error {
	for _, d := range o.directives {
		if !hasParam(sig, d.Param) {
			return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParam, sig.Target, d.Param)
		}
	}
	for p := range o.defaults {
		if !hasParam(sig, p) {
			return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParam, sig.Target, p)
		}
	}
	sig.Directives = append(sig.Directives, o.directives...)
	sig.Defaults = o.defaults
	return nil
}

func hasParam(sig *Signature, name string) bool {
	return slices.ContainsFunc(sig.Params, func(p Param) bool { return p.Name == name })
}

// ── Catalog ───────────────────────────────────────────────────────────────────

type entry struct {
	sig  *Signature
	typ  reflect.Type
	zero func() (any, error)
}

// Catalog records how types are constructed and how methods are called.
// It is the introspection capability the resolver consumes and also
// implements container.Instantiator.
type Catalog struct {
	mu       sync.RWMutex
	byName   map[string]*entry
	byType   map[reflect.Type]string
	implicit map[reflect.Type]*Signature
	methods  map[string]*options
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byName:   make(map[string]*entry),
		byType:   make(map[reflect.Type]string),
		implicit: make(map[reflect.Type]*Signature),
		methods:  make(map[string]*options),
	}
}

// Register records a constructor. v is either a function returning T or
// (T, error), or a struct / pointer-to-struct prototype whose `inject`
// tagged fields become parameters. The entry is keyed by the type name of T
// unless As is given.
//
//	cat.Register(NewMailer,
//	    introspect.Params("host", "port", "log"),
//	    introspect.Inject("mail.logger", "log"),
//	    introspect.Default("port", 25),
//	)
//	cat.Register((*Handler)(nil))
func (c *Catalog) Register(v any, opts ...Option) error {
	o := collect(opts)
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return fmt.Errorf("%w: nil", ErrInvalidConstructor)
	}

	var (
		sig  *Signature
		typ  reflect.Type
		zero func() (any, error)
	)
	switch t := rv.Type(); {
	case t.Kind() == reflect.Func:
		var err error
		if sig, typ, err = funcSignature(rv, o); err != nil {
			return err
		}
		if len(sig.Params) == 0 {
			zero = func() (any, error) { return sig.invoke(nil) }
		}
	case t.Kind() == reflect.Struct, t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		if len(o.params) > 0 {
			return fmt.Errorf("%w: Params does not apply to struct %s", ErrInvalidConstructor, t)
		}
		typ = deref(t)
		sig = structSignature(typ)
		if len(sig.Params) == 0 {
			zero = func() (any, error) { return reflect.New(typ).Interface(), nil }
		}
	default:
		return fmt.Errorf("%w: %T", ErrInvalidConstructor, v)
	}

	name := o.name
	if name == "" {
		name = TypeName(typ)
	}
	sig.Target = name
	if err := o.apply(sig); err != nil {
		return err
	}
	if zero == nil {
		n := len(sig.Params)
		zero = func() (any, error) {
			return nil, fmt.Errorf("%w: %s takes %d", ErrNeedsArguments, name, n)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A replaced entry no longer speaks for the type it was registered from.
	for t, n := range c.byType {
		if n == name {
			delete(c.byType, t)
		}
	}
	c.byName[name] = &entry{sig: sig, typ: typ, zero: zero}
	if o.name == "" {
		c.byType[deref(typ)] = name
	}
	return nil
}

// Method declares parameter names, directives and defaults for a method of
// the type registered (or named) as typeName.
//
//	cat.Method(introspect.NameOf[Mailer](), "Send",
//	    introspect.Params("to", "body"),
//	    introspect.Inject("mail.from", "from"),
//	)
func (c *Catalog) Method(typeName, method string, opts ...Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.methods[typeName+"."+method] = collect(opts)
}

// Constructor returns the signature registered under name.
func (c *Catalog) Constructor(name string) (*Signature, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return e.sig, nil
}

// ConstructorFor returns the signature for t. User-defined struct types that
// were never registered get an implicit signature over their `inject`
// tagged fields.
func (c *Catalog) ConstructorFor(t reflect.Type) (*Signature, bool) {
	base := deref(t)
	c.mu.RLock()
	if name, ok := c.byType[base]; ok {
		sig := c.byName[name].sig
		c.mu.RUnlock()
		return sig, true
	}
	sig, ok := c.implicit[base]
	c.mu.RUnlock()
	if ok {
		return sig, true
	}
	if base.Kind() != reflect.Struct || !isUserDefined(base) {
		return nil, false
	}

	sig = structSignature(base)
	c.mu.Lock()
	c.implicit[base] = sig
	c.mu.Unlock()
	return sig, true
}

// MethodOf returns the signature of the named method bound to receiver.
func (c *Catalog) MethodOf(receiver any, method string) (*Signature, error) {
	rv := reflect.ValueOf(receiver)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: %s on nil receiver", ErrNoMethod, method)
	}
	target := TypeName(rv.Type()) + "." + method
	m := rv.MethodByName(method)
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrNoMethod, target)
	}

	c.mu.RLock()
	o, ok := c.methods[target]
	c.mu.RUnlock()
	if !ok {
		o = &options{}
	}

	sig, err := methodSignature(m, target, o.params)
	if err != nil {
		return nil, err
	}
	if err := o.apply(sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// Constructible reports whether name is registered. It implements
// container.Instantiator.
func (c *Catalog) Constructible(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byName[name]
	return ok
}

// Instantiate builds name without arguments. Struct prototypes without
// injected fields yield a pointer to their zero value; anything with
// parameters fails with ErrNeedsArguments. It implements
// container.Instantiator.
func (c *Catalog) Instantiate(name string) (any, error) {
	c.mu.RLock()
	e, ok := c.byName[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return e.zero()
}

// Names returns every registered name in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.byName))
	for k := range c.byName {
		out = append(out, k)
	}
	c.mu.RUnlock()
	slices.Sort(out)
	return out
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// isUserDefined reports whether t lives outside the standard library, using
// the go tool's rule: standard import paths have no dot in their first
// element.
func isUserDefined(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" {
		return false
	}
	first, _, _ := strings.Cut(pkg, "/")
	return pkg == "main" || strings.Contains(first, ".")
}
