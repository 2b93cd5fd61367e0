package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Request wraps *http.Request with the read-side helpers the inspector needs.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Input ────────────────────────────────────────────────────────────────────

// Query returns a query-string value, or fallback when it is empty.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// RouteParam returns a chi URL parameter.
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the request path.
func (req *Request) Path() string { return req.raw.URL.Path }

// ── Negotiation ──────────────────────────────────────────────────────────────

// WantsYAML reports whether the client asked for YAML, either with
// ?format=yaml or through the Accept header.
func (req *Request) WantsYAML() bool {
	switch strings.ToLower(req.Query("format")) {
	case "yaml", "yml":
		return true
	case "json":
		return false
	}
	return strings.Contains(req.Header("Accept"), "yaml")
}
