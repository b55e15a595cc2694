package middleware

import (
	"net/http"
	"time"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/logging"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/state"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

// statusRecorder captures the status code a handler wrote, since
// http.ResponseWriter gives no way to read it back afterward.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging stamps every request with a trace id (reusing the X-Trace-Id
// request header if the caller already set one, minting one with
// state.NewExecutionID otherwise), attaches a request-scoped *logging.Logger
// to the context via logging.WithContext, and logs the request's start and
// completion.
func Logging(logger *logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get("X-Trace-Id")
			if traceID == "" {
				traceID = state.NewExecutionID()
			}
			ctx := types.WithTraceID(r.Context(), traceID)

			reqLogger := logger.WithExecutionID(traceID).
				WithField("method", r.Method).
				WithField("path", r.URL.Path)
			ctx = reqLogger.WithContext(ctx)

			reqLogger.Debug("request started")
			start := time.Now()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			rec.Header().Set("X-Trace-Id", traceID)

			next.ServeHTTP(rec, r.WithContext(ctx))

			reqLogger.
				WithField("status", rec.status).
				WithField("duration_ms", time.Since(start).Milliseconds()).
				Info("request completed")
		})
	}
}
