package resolver

import (
	"github.com/km-arc/go-syringe/framework/introspect"
)

// Outcome tells the chain what a strategy did with a parameter.
type Outcome int

const (
	// Pass hands the parameter to the next strategy.
	Pass Outcome = iota
	// Supplied means the returned value is the argument.
	Supplied
	// Omitted ends the chain without a value; the parameter receives the
	// zero value of its type.
	Omitted
)

func (o Outcome) String() string {
	switch o {
	case Supplied:
		return "supplied"
	case Omitted:
		return "omitted"
	default:
		return "pass"
	}
}

// Strategy is one step of parameter resolution. Strategies are tried in
// order until one returns Supplied or Omitted, or an error.
type Strategy interface {
	Name() string
	TryResolve(req *Request, p introspect.Param) (any, Outcome, error)
}

// DefaultStrategies returns the standard chain:
// Override, Annotation, TypeDirected, NameFallback.
func DefaultStrategies() []Strategy {
	return []Strategy{Override{}, Annotation{}, TypeDirected{}, NameFallback{}}
}

// ── Override ──────────────────────────────────────────────────────────────────

// Override supplies the value the caller passed for the parameter name,
// verbatim.
type Override struct{}

func (Override) Name() string { return "override" }

func (Override) TryResolve(req *Request, p introspect.Param) (any, Outcome, error) {
	if v, ok := req.Overrides[p.Name]; ok {
		return v, Supplied, nil
	}
	return nil, Pass, nil
}

// ── Annotation ────────────────────────────────────────────────────────────────

// Annotation follows an injection directive declared for the parameter.
// A key naming a constructible type is resolved as a class; any other key
// is fetched from the container, and a missing binding is an error.
type Annotation struct{}

func (Annotation) Name() string { return "annotation" }

func (Annotation) TryResolve(req *Request, p introspect.Param) (any, Outcome, error) {
	d, ok := req.Signature.Directive(p.Name)
	if !ok {
		return nil, Pass, nil
	}
	var (
		v   any
		err error
	)
	if req.Catalog().Constructible(d.Key) {
		v, err = req.ResolveClass(d.Key)
	} else {
		v, err = req.Container().Get(d.Key)
	}
	if err != nil {
		return nil, Pass, err
	}
	return v, Supplied, nil
}

// ── TypeDirected ──────────────────────────────────────────────────────────────

// TypeDirected uses the static type of the parameter. Builtin types are
// looked up by parameter name. Other types are resolved as classes when
// bound or constructible; otherwise the parameter is unresolvable unless
// the resolver defaults to the zero value.
type TypeDirected struct{}

func (TypeDirected) Name() string { return "type" }

func (TypeDirected) TryResolve(req *Request, p introspect.Param) (any, Outcome, error) {
	if !p.Typed() {
		return nil, Pass, nil
	}
	if introspect.IsBuiltin(p.Type) {
		return byName(req, p)
	}

	name := introspect.TypeName(p.Type)
	if req.Container().Has(name) || req.constructible(p.Type) {
		v, err := req.ResolveType(p.Type)
		if err != nil {
			return nil, Pass, err
		}
		return v, Supplied, nil
	}
	if v, ok := req.Signature.Default(p.Name); ok {
		return v, Supplied, nil
	}
	if req.r.defaultNull {
		return nil, Supplied, nil
	}
	return nil, Pass, req.unresolvable(p)
}

// ── NameFallback ──────────────────────────────────────────────────────────────

// NameFallback looks the parameter name up in the container.
type NameFallback struct{}

func (NameFallback) Name() string { return "name" }

func (NameFallback) TryResolve(req *Request, p introspect.Param) (any, Outcome, error) {
	return byName(req, p)
}

// byName resolves p from the binding named after it, then from its declared
// default. Without either the parameter is omitted, or unresolvable when
// the resolver is strict.
func byName(req *Request, p introspect.Param) (any, Outcome, error) {
	c := req.Container()
	if c.Has(p.Name) {
		v, err := c.Get(p.Name)
		if err != nil {
			return nil, Pass, err
		}
		return v, Supplied, nil
	}
	if v, ok := req.Signature.Default(p.Name); ok {
		return v, Supplied, nil
	}
	if req.r.strict {
		return nil, Pass, req.unresolvable(p)
	}
	return nil, Omitted, nil
}
