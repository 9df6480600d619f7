package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
)

// ObservabilityMiddleware adds OpenTelemetry tracing and metrics to HTTP requests
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// r.Pattern is only set once the mux has matched, so spans are
			// named after the path and tagged with the route afterwards.
			ctx, span := observability.StartSpan(r.Context(), r.Method+" "+r.URL.Path)
			defer span.End()

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.String("http.request_id", observability.RequestIDFromContext(ctx)),
			)

			rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			req := r.WithContext(ctx)
			start := time.Now()
			next.ServeHTTP(rw, req)

			route := req.Pattern
			if route == "" {
				route = "unmatched"
			}
			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, time.Since(start))
			observability.SetSpanAttributes(span,
				attribute.String("http.route", route),
				attribute.Int("http.status_code", rw.statusCode),
			)
			if rw.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
			}
		})
	}
}
