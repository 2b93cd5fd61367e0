package resolver

import (
	"slices"
	"sync"

	"github.com/km-arc/go-syringe/framework/container"
	"github.com/km-arc/go-syringe/framework/introspect"
)

// Contextual supplies parameters from rules declared for one consumer:
// when a target needs something, give it a particular binding. A need is
// either a parameter name or the type name of a parameter.
//
//	ctx := resolver.NewContextual()
//	ctx.When(introspect.NameOf[PhotoController]()).
//	    Needs(introspect.NameOf[Filesystem]()).
//	    Give("filesystem.s3")
//	ctx.When(introspect.NameOf[PhotoController]()).Needs("root").GiveValue("/tmp/photos")
//
//	r := resolver.New(c, cat, resolver.WithContextual(ctx))
type Contextual struct {
	mu    sync.RWMutex
	rules map[string]map[string]rule
}

type rule struct {
	key     string
	factory container.Factory
	value   any
}

// NewContextual creates an empty rule set.
func NewContextual() *Contextual {
	return &Contextual{rules: make(map[string]map[string]rule)}
}

// When starts a rule for target, the registered name of a constructor or
// "Type.Method" for a method.
func (x *Contextual) When(target string) *ContextualBuilder {
	return &ContextualBuilder{x: x, target: target}
}

// ContextualBuilder is the fluent half of When.
type ContextualBuilder struct {
	x      *Contextual
	target string
	needs  string
}

// Needs names the parameter, or parameter type, the rule applies to.
func (b *ContextualBuilder) Needs(need string) *ContextualBuilder {
	b.needs = need
	return b
}

// Give resolves the need from the binding or constructible type key.
func (b *ContextualBuilder) Give(key string) { b.x.set(b.target, b.needs, rule{key: key}) }

// GiveFactory builds the need with f on every resolution.
func (b *ContextualBuilder) GiveFactory(f container.Factory) {
	b.x.set(b.target, b.needs, rule{factory: f})
}

// GiveValue supplies v as-is.
func (b *ContextualBuilder) GiveValue(v any) { b.x.set(b.target, b.needs, rule{value: v}) }

func (x *Contextual) set(target, need string, r rule) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.rules[target] == nil {
		x.rules[target] = make(map[string]rule)
	}
	x.rules[target][need] = r
}

// lookup prefers a rule on the parameter name over one on its type.
func (x *Contextual) lookup(target string, p introspect.Param) (rule, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	needs := x.rules[target]
	if r, ok := needs[p.Name]; ok {
		return r, true
	}
	if p.Typed() {
		r, ok := needs[introspect.TypeName(p.Type)]
		return r, ok
	}
	return rule{}, false
}

func (x *Contextual) Name() string { return "contextual" }

func (x *Contextual) TryResolve(req *Request, p introspect.Param) (any, Outcome, error) {
	r, ok := x.lookup(req.Target, p)
	if !ok {
		return nil, Pass, nil
	}

	var (
		v   any
		err error
	)
	switch {
	case r.factory != nil:
		if v, err = r.factory(req.Container()); err != nil {
			err = container.Construction(req.Target, err)
		}
	case r.key != "":
		if req.Catalog().Constructible(r.key) {
			v, err = req.ResolveClass(r.key)
		} else {
			v, err = req.Container().Get(r.key)
		}
	default:
		v = r.value
	}
	if err != nil {
		return nil, Pass, err
	}
	return v, Supplied, nil
}

// WithContextual places x in the chain right after Override, so contextual
// rules beat injection directives and static types but never a caller's
// explicit value.
func WithContextual(x *Contextual) Option {
	return func(r *Resolver) {
		if x == nil {
			return
		}
		at := slices.IndexFunc(r.strategies, func(s Strategy) bool {
			_, ok := s.(Override)
			return ok
		}) + 1
		r.strategies = slices.Insert(slices.Clone(r.strategies), at, Strategy(x))
	}
}
