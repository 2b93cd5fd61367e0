package container

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the binding store. It maps string keys to values, factories
// or shared instances and evaluates them on Get.
//
// It supports:
//   - Value / Class / Instance bindings and the Bind dispatcher
//   - lazy singletons (Instance bindings holding a factory)
//   - Extend (post-process every lookup of a key)
//   - Raw (inspect the unevaluated payload)
//
// The container knows nothing about reflection. TypeRef payloads are built
// through the Instantiator given with WithInstantiator.
type Container struct {
	mu sync.RWMutex

	// key → binding (at most one per key)
	bindings map[string]*binding

	// key → memoized result of an Instance binding
	instances map[string]any

	// key → extension chain
	extenders map[string][]Extender

	instantiator Instantiator
	log          *zap.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for binding events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// WithInstantiator sets the capability used to build TypeRef payloads and
// to recognise keys that name constructible types.
func WithInstantiator(i Instantiator) Option {
	return func(c *Container) { c.instantiator = i }
}

// New creates an empty container. The container binds itself under
// "container".
func New(opts ...Option) *Container {
	c := &Container{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		extenders: make(map[string][]Extender),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.BindInstance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// BindValue registers v under key. The value is returned as-is on every Get,
// unless it names a constructible type, in which case a fresh instance is
// built per lookup.
//
//	c.BindValue("mail.host", "smtp.example.com")
func (c *Container) BindValue(key string, v any) {
	c.set(key, c.classify(KindValue, v))
}

// BindClass registers a transient binding: a Factory invoked on every Get,
// or a TypeRef instantiated on every Get.
//
//	c.BindClass("mailer", container.TypeRef("app.SMTPMailer"))
func (c *Container) BindClass(key string, v any) {
	c.set(key, c.classify(KindClass, v))
}

// BindInstance registers a shared binding: either a prebuilt object returned
// as-is, or a Factory whose first result is cached. Any instance cached for
// key is dropped.
//
//	c.BindInstance("config", cfg)
func (c *Container) BindInstance(key string, v any) {
	c.set(key, c.classify(KindInstance, v))
}

// Singleton registers a factory whose result is cached after the first Get.
//
//	c.Singleton("cache", func(c *container.Container) (any, error) {
//	    return cache.NewMemory(), nil
//	})
func (c *Container) Singleton(key string, f Factory) {
	c.BindInstance(key, f)
}

// Bind picks the binding kind from the payload:
//  1. an already-built object becomes an Instance binding;
//  2. a key naming a constructible type, a factory, or a payload naming a
//     constructible type becomes a Class binding;
//  3. anything else becomes a Value binding.
func (c *Container) Bind(key string, v any) {
	switch {
	case isObject(v):
		c.BindInstance(key, v)
	case c.constructible(key) || isCallable(v) || c.classify(KindClass, v).tag == tagTypeRef:
		c.BindClass(key, v)
	default:
		c.BindValue(key, v)
	}
}

func (c *Container) constructible(name string) bool {
	return c.instantiator != nil && c.instantiator.Constructible(name)
}

// set stores b under key, replacing any previous binding and dropping the
// cached instance for key.
func (c *Container) set(key string, b *binding) {
	c.mu.Lock()
	_, rebind := c.bindings[key]
	c.bindings[key] = b
	delete(c.instances, key)
	c.mu.Unlock()

	c.log.Debug("container: bound",
		zap.String("key", key),
		zap.Stringer("kind", b.kind),
		zap.Bool("rebind", rebind),
	)
}

// current returns the binding stored under key, or nil.
func (c *Container) current(key string) *binding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bindings[key]
}

// Extend appends fn to the extension chain of key. Extending a key that has
// no binding fails with *NotFoundError.
//
//	c.Extend("logger", func(v any, c *container.Container) (any, error) {
//	    return &TimestampLogger{Inner: v.(*Logger)}, nil
//	})
func (c *Container) Extend(key string, fn Extender) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.bindings[key]; !ok {
		return &NotFoundError{Key: key}
	}
	c.extenders[key] = append(c.extenders[key], fn)
	return nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get evaluates the binding for key and runs its extension chain over the
// result.
func (c *Container) Get(key string) (any, error) {
	c.mu.RLock()
	b, ok := c.bindings[key]
	cached, hit := c.instances[key]
	exts := c.extenders[key]
	c.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Key: key}
	}

	var (
		result any
		err    error
	)
	if hit {
		result = cached
	} else if result, err = c.evaluate(key, b); err != nil {
		return nil, err
	}

	for _, ext := range exts {
		if result, err = ext(result, c); err != nil {
			return nil, Construction(key, err)
		}
	}
	return result, nil
}

// Make is Get for bootstrap code that treats a missing binding as a bug.
//
//	repo := c.Make("UserRepository")
func (c *Container) Make(key string) any {
	v, err := c.Get(key)
	if err != nil {
		panic(err)
	}
	return v
}

func (c *Container) evaluate(key string, b *binding) (any, error) {
	switch b.kind {
	case KindValue:
		if b.tag == tagTypeRef {
			return c.instantiate(b.ref)
		}
		return b.raw, nil

	case KindClass:
		switch b.tag {
		case tagFactory:
			return c.invoke(key, b.factory)
		case tagTypeRef:
			return c.instantiate(b.ref)
		}
		return b.raw, nil

	case KindInstance:
		var (
			v   any
			err error
		)
		switch b.tag {
		case tagFactory:
			v, err = c.invoke(key, b.factory)
		case tagTypeRef:
			v, err = c.instantiate(b.ref)
		default:
			return b.raw, nil
		}
		if err != nil {
			return nil, err
		}
		return c.memoize(key, b, v), nil
	}
	return nil, Construction(key, fmt.Errorf("unknown binding kind %d", b.kind))
}

// memoize caches v for key unless the binding was replaced while v was
// being built. A concurrent winner's instance is preferred over v.
func (c *Container) memoize(key string, b *binding, v any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bindings[key] != b {
		return v
	}
	if existing, ok := c.instances[key]; ok {
		return existing
	}
	c.instances[key] = v
	return v
}

func (c *Container) invoke(key string, f Factory) (any, error) {
	v, err := f(c)
	if err != nil {
		return nil, Construction(key, err)
	}
	return v, nil
}

func (c *Container) instantiate(ref TypeRef) (any, error) {
	if c.instantiator == nil {
		return nil, Construction(string(ref), ErrNoInstantiator)
	}
	v, err := c.instantiator.Instantiate(string(ref))
	if err != nil {
		return nil, Construction(string(ref), err)
	}
	return v, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Has reports whether any binding exists for key.
func (c *Container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[key]
	return ok
}

// Raw returns the payload bound for key without evaluating it or running
// extensions.
func (c *Container) Raw(key string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return b.raw, nil
}

// Kind returns the kind of the binding for key.
func (c *Container) Kind(key string) (Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[key]
	if !ok {
		return 0, false
	}
	return b.kind, true
}

// Resolved reports whether an Instance binding for key has a cached result.
func (c *Container) Resolved(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[key]
	return ok
}

// Keys returns every bound key in sorted order.
func (c *Container) Keys() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.bindings))
	for k := range c.bindings {
		out = append(out, k)
	}
	c.mu.RUnlock()
	slices.Sort(out)
	return out
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	// Instead of: v, _ := c.Get("db"); db := v.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	v, err := c.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: Resolve[%T]: [%s] resolved to %T", ErrTypeMismatch, zero, key, v)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on any error.
func MustResolve[T any](c *Container, key string) T {
	v, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return v
}
