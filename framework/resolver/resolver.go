package resolver

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"github.com/km-arc/go-syringe/framework/config"
	"github.com/km-arc/go-syringe/framework/container"
	"github.com/km-arc/go-syringe/framework/introspect"
)

// Args maps parameter names to caller-supplied values.
type Args map[string]any

// CallArgs splits the overrides of Call between the constructor (Class) and
// the method (Method).
type CallArgs struct {
	Class  Args
	Method Args
}

// ── Resolver ──────────────────────────────────────────────────────────────────

// Resolver builds types and invokes methods, supplying every argument from
// overrides, injection directives, static types and the container.
//
// The resolver holds no per-call state and is safe for concurrent use.
type Resolver struct {
	c          *container.Container
	cat        *introspect.Catalog
	strategies []Strategy

	defaultNull bool
	strict      bool
	log         *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDefaultNull makes parameters whose type cannot be resolved receive
// their zero value instead of failing.
func WithDefaultNull(on bool) Option {
	return func(r *Resolver) { r.defaultNull = on }
}

// WithStrict makes builtin and untyped parameters with no binding and no
// default fail instead of being omitted.
func WithStrict(on bool) Option {
	return func(r *Resolver) { r.strict = on }
}

// WithLogger sets the logger that records every resolved parameter.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithStrategies replaces the default strategy chain. Nil strategies are
// ignored.
func WithStrategies(s ...Strategy) Option {
	return func(r *Resolver) {
		r.strategies = slices.DeleteFunc(slices.Clone(s), func(s Strategy) bool { return s == nil })
	}
}

// New creates a resolver reading from c and cat. It binds c and itself
// under their type names so constructors may ask for either.
func New(c *container.Container, cat *introspect.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		c:          c,
		cat:        cat,
		strategies: DefaultStrategies(),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if key := introspect.NameOf[container.Container](); !c.Has(key) {
		c.BindInstance(key, c)
	}
	c.BindInstance(introspect.NameOf[Resolver](), r)
	return r
}

// FromConfig creates a resolver whose flags come from cfg. Later options
// win over the configuration.
func FromConfig(c *container.Container, cat *introspect.Catalog, cfg config.ResolverConfig, opts ...Option) *Resolver {
	base := []Option{WithDefaultNull(cfg.DefaultNull), WithStrict(cfg.Strict)}
	return New(c, cat, append(base, opts...)...)
}

// Container returns the container the resolver reads from.
func (r *Resolver) Container() *container.Container { return r.c }

// Catalog returns the catalog the resolver introspects.
func (r *Resolver) Catalog() *introspect.Catalog { return r.cat }

// ResolveClass builds the type registered under name. An explicit binding
// for name always wins.
//
//	mailer, err := r.ResolveClass("app.Mailer", resolver.Args{"port": 2525})
func (r *Resolver) ResolveClass(name string, overrides Args) (any, error) {
	return r.resolveClass(name, overrides, nil)
}

// ResolveType builds t. An explicit binding under the type name of t wins;
// unregistered struct types are built from their `inject` tagged fields.
func (r *Resolver) ResolveType(t reflect.Type, overrides Args) (any, error) {
	return r.resolveType(t, overrides, nil)
}

// ResolveMethod invokes method on instance with resolved arguments and
// returns its result.
//
//	sent, err := r.ResolveMethod(mailer, "Send", resolver.Args{"to": "ops@example.com"})
func (r *Resolver) ResolveMethod(instance any, method string, overrides Args) (any, error) {
	sig, err := r.cat.MethodOf(instance, method)
	if err != nil {
		return nil, container.Construction(method, err)
	}
	return r.build(sig, overrides, nil)
}

// Call resolves name with args.Class and then invokes method on the result
// with args.Method.
//
//	n, err := r.Call("app.Mailer", "Send", resolver.CallArgs{
//	    Class:  resolver.Args{"port": 2525},
//	    Method: resolver.Args{"to": "ops@example.com"},
//	})
func (r *Resolver) Call(name, method string, args CallArgs) (any, error) {
	inst, err := r.ResolveClass(name, args.Class)
	if err != nil {
		return nil, err
	}
	return r.ResolveMethod(inst, method, args.Method)
}

// ── Construction ──────────────────────────────────────────────────────────────

func (r *Resolver) resolveClass(name string, overrides Args, chain []string) (any, error) {
	if r.c.Has(name) {
		return r.c.Get(name)
	}
	sig, err := r.cat.Constructor(name)
	if err != nil {
		return nil, container.Construction(name, err)
	}
	return r.construct(name, sig, overrides, chain)
}

func (r *Resolver) resolveType(t reflect.Type, overrides Args, chain []string) (any, error) {
	name := introspect.TypeName(t)
	if r.c.Has(name) {
		return r.c.Get(name)
	}
	sig, ok := r.cat.ConstructorFor(t)
	if !ok {
		return nil, container.Construction(name, fmt.Errorf("%w: %s is not constructible", introspect.ErrUnknownType, name))
	}
	return r.construct(name, sig, overrides, chain)
}

func (r *Resolver) construct(name string, sig *introspect.Signature, overrides Args, chain []string) (any, error) {
	if slices.Contains(chain, name) {
		return nil, &CyclicDependencyError{Chain: append(slices.Clone(chain), name)}
	}
	return r.build(sig, overrides, append(slices.Clone(chain), name))
}

// build resolves every parameter of sig in declared order and invokes it.
func (r *Resolver) build(sig *introspect.Signature, overrides Args, chain []string) (any, error) {
	req := &Request{
		Target:    sig.Target,
		Signature: sig,
		Overrides: overrides,
		r:         r,
		chain:     chain,
	}
	args := make([]reflect.Value, len(sig.Params))
	for i, p := range sig.Params {
		arg, err := r.argument(req, p)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	v, err := sig.Invoke(args)
	if err != nil {
		return nil, container.Construction(sig.Target, err)
	}
	return v, nil
}

// argument runs the strategy chain for p. A chain that ends without any
// strategy taking the parameter is treated like TypeDirected's failure.
func (r *Resolver) argument(req *Request, p introspect.Param) (reflect.Value, error) {
	for _, s := range r.strategies {
		v, outcome, err := s.TryResolve(req, p)
		if err != nil {
			return reflect.Value{}, err
		}
		switch outcome {
		case Pass:
			continue
		case Supplied:
			r.log.Debug("resolver: parameter resolved",
				zap.String("target", req.Target),
				zap.String("param", p.Name),
				zap.String("strategy", s.Name()),
			)
			arg, err := introspect.Coerce(v, p.Type)
			if err != nil {
				return reflect.Value{}, container.Construction(req.Target, fmt.Errorf("parameter %q: %w", p.Name, err))
			}
			return arg, nil
		case Omitted:
			r.log.Debug("resolver: parameter omitted",
				zap.String("target", req.Target),
				zap.String("param", p.Name),
				zap.String("strategy", s.Name()),
			)
			return reflect.Zero(p.Type), nil
		}
	}
	if r.defaultNull {
		return reflect.Zero(p.Type), nil
	}
	return reflect.Value{}, req.unresolvable(p)
}

// ── Request ───────────────────────────────────────────────────────────────────

// Request is the state of one signature being resolved. It is handed to
// every strategy and carries the in-flight construction chain so nested
// resolution can detect cycles.
type Request struct {
	Target    string
	Signature *introspect.Signature
	Overrides Args

	r     *Resolver
	chain []string
}

// Container returns the container being resolved against.
func (q *Request) Container() *container.Container { return q.r.c }

// Catalog returns the catalog being resolved against.
func (q *Request) Catalog() *introspect.Catalog { return q.r.cat }

// Chain returns the targets currently under construction, outermost first.
func (q *Request) Chain() []string { return slices.Clone(q.chain) }

// ResolveClass resolves name as a dependency of the current target.
func (q *Request) ResolveClass(name string) (any, error) {
	return q.r.resolveClass(name, nil, q.chain)
}

// ResolveType resolves t as a dependency of the current target.
func (q *Request) ResolveType(t reflect.Type) (any, error) {
	return q.r.resolveType(t, nil, q.chain)
}

func (q *Request) constructible(t reflect.Type) bool {
	_, ok := q.r.cat.ConstructorFor(t)
	return ok
}

func (q *Request) unresolvable(p introspect.Param) error {
	return &UnresolvableParameterError{
		Param:  p.Name,
		Type:   introspect.TypeName(p.Type),
		Target: q.Target,
	}
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Make resolves T and converts the result to T.
//
//	mailer, err := resolver.Make[*Mailer](r, nil)
func Make[T any](r *Resolver, overrides Args) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	v, err := r.ResolveType(t, overrides)
	if err != nil {
		return zero, err
	}
	rv, err := introspect.Coerce(v, t)
	if err != nil {
		return zero, fmt.Errorf("resolver: Make[%s]: %w", t, err)
	}
	typed, _ := rv.Interface().(T)
	return typed, nil
}
