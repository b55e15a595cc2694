package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records per-request count and duration against meter, distinct
// from pkg/telemetry.Provider's walk/edge/action domain metrics: this
// middleware measures the HTTP transport (route, method, status), not the
// traversal the request triggers. Pass the same Provider's Meter() so both
// sets of instruments export through one OTel/Prometheus pipeline.
func Metrics(meter metric.Meter) (Middleware, error) {
	requests, err := meter.Int64Counter("http.requests.total",
		metric.WithDescription("total HTTP requests handled"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			attrs := attribute.NewSet(
				attribute.String("method", r.Method),
				attribute.String("path", r.URL.Path),
				attribute.Int("status", rec.status),
			)
			requests.Add(r.Context(), 1, metric.WithAttributeSet(attrs))
			duration.Record(r.Context(), time.Since(start).Seconds(), metric.WithAttributeSet(attrs))
		})
	}, nil
}
