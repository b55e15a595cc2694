// Package middleware provides a small stack of HTTP middleware for the
// reference HTTP binding in cmd/server: request logging, rate limiting,
// request body size limiting, and request timeout enforcement, composing the
// same way chi's own middleware does.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior. It matches
// net/http's and chi's own middleware signature so the stack composes
// directly with chi.Router.Use.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware into a single Middleware. The first argument is
// outermost: Chain(A, B, C)(h) runs A, then B, then C, then h on the way in,
// and unwinds in the reverse order on the way out.
func Chain(mw ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		h := final
		for i := len(mw) - 1; i >= 0; i-- {
			h = mw[i](h)
		}
		return h
	}
}
