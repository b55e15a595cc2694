package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a single walk call end to end: loading a
// Section, evaluating askWhen predicates and variable definitions, and
// executing at most one Action chain. The Sandbox Evaluator's own timeout
// (1500ms) and the Graph Gateway's retry backoff are both well inside this.
const DefaultRequestTimeout = 10 * time.Second

// Timeout bounds request handling to d, attaching a context.WithTimeout
// deadline that the Graph Gateway and Sandbox Evaluator both observe. This
// relies on the downstream request context's deadline to actually cancel
// in-flight work rather than racing a goroutine against time.After; net/http's
// own connection handling takes care of writing the response once the
// handler returns.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
