package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hivetech/kanban-api/internal/api/shared"
	"github.com/hivetech/kanban-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that attaches a trace ID and a
// request-scoped logger to each request's context. Downstream code
// retrieves the logger with logger.FromContext and inherits the trace
// attributes automatically.
func NewTraceMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())

			reqLogger := log.With(
				"trace_id", shared.GetTraceID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
			)
			ctx = logger.WithLogger(ctx, reqLogger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
