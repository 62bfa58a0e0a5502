// Package middleware provides the HTTP middleware stack, request logging, and CORS.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware. The first registered
// middleware is the outermost.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack []func(http.Handler) http.Handler

// New creates a System seeded with mws.
func New(mws ...func(http.Handler) http.Handler) System {
	s := make(stack, 0, len(mws))
	s = append(s, mws...)
	return &s
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	*s = append(*s, fn)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		handler = (*s)[i](handler)
	}
	return handler
}
