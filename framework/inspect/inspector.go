// Package inspect serves a read-only HTTP view of a container's bindings.
//
//	GET /bindings              → {"data": [{"key": ..., "kind": ...}]}
//	GET /bindings/{key}        → {"data": {"key", "kind", "payload", "resolved"}}
//	GET /bindings/{key}/value  → {"data": <resolved value>}  (?format=yaml for YAML)
package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-syringe/framework/container"
	gohttp "github.com/km-arc/go-syringe/framework/http"
	"github.com/km-arc/go-syringe/framework/routing"
)

// Binding describes one entry of the container.
type Binding struct {
	Key      string `json:"key" yaml:"key"`
	Kind     string `json:"kind" yaml:"kind"`
	Payload  string `json:"payload,omitempty" yaml:"payload,omitempty"`
	Resolved bool   `json:"resolved" yaml:"resolved"`
}

// Inspector answers binding queries against a container.
type Inspector struct {
	c   *container.Container
	log *zap.Logger
}

// New creates an Inspector over c.
func New(c *container.Container, log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{c: c, log: log}
}

// Routes mounts the inspector endpoints on r.
func (i *Inspector) Routes(r *routing.Router) {
	r.Prefix("/bindings", func(b *routing.Router) {
		b.Get("/", i.list)
		b.Get("/{key}", i.show)
		b.Get("/{key}/value", i.value)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).NotFound()
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).MethodNotAllowed()
	})
}

// Handler returns a router serving only the inspector.
func (i *Inspector) Handler() http.Handler {
	r := routing.New(i.log)
	i.Routes(r)
	return r
}

// Describe returns the binding for key without evaluating it.
func (i *Inspector) Describe(key string) (Binding, error) {
	raw, err := i.c.Raw(key)
	if err != nil {
		return Binding{}, err
	}
	kind, _ := i.c.Kind(key)
	return Binding{
		Key:      key,
		Kind:     kind.String(),
		Payload:  fmt.Sprintf("%T", raw),
		Resolved: i.c.Resolved(key),
	}, nil
}

// List describes every binding in key order.
func (i *Inspector) List() []Binding {
	keys := i.c.Keys()
	out := make([]Binding, 0, len(keys))
	for _, key := range keys {
		kind, ok := i.c.Kind(key)
		if !ok {
			continue // rebound away between Keys and Kind
		}
		out = append(out, Binding{Key: key, Kind: kind.String(), Resolved: i.c.Resolved(key)})
	}
	return out
}

// ── handlers ─────────────────────────────────────────────────────────────────

func (i *Inspector) list(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	if req.WantsYAML() {
		res.YAML(http.StatusOK, map[string]any{"data": i.List()})
		return
	}
	res.Success(i.List())
}

func (i *Inspector) show(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	b, err := i.Describe(req.RouteParam("key"))
	if err != nil {
		i.fail(res, err)
		return
	}
	if req.WantsYAML() {
		res.YAML(http.StatusOK, map[string]any{"data": b})
		return
	}
	res.Success(b)
}

func (i *Inspector) value(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	key := req.RouteParam("key")
	v, err := i.c.Get(key)
	if err != nil {
		i.fail(res, err)
		return
	}
	if req.WantsYAML() {
		res.YAML(http.StatusOK, map[string]any{"data": v})
		return
	}
	// Encode up front so an unencodable value becomes a clean 500.
	if _, err := json.Marshal(v); err != nil {
		i.log.Warn("inspect: value not encodable", zap.String("key", key), zap.Error(err))
		res.ServerError(fmt.Sprintf("value of %q (%T) cannot be encoded", key, v))
		return
	}
	res.Success(v)
}

func (i *Inspector) fail(res *gohttp.Response, err error) {
	if errors.Is(err, container.ErrNotFound) {
		res.NotFound(err.Error())
		return
	}
	i.log.Error("inspect: resolution failed", zap.Error(err))
	res.ServerError(err.Error())
}
