package middleware

import (
	"net/http"

	"github.com/frahmantamala/empleoya/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestID propagates the caller's trace id, or a new one, to the response
// and to the context logger. The chi request id is attached when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		fields := []any{"trace_id", traceID}
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		ctx := logger.With(r.Context(), fields...)

		r.Header.Set(TraceHeader, traceID)
		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
