package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/empleoya/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

const (
	filtered     = "[FILTERED]"
	maxLogBody   = 4 << 10
	truncatedTag = "...[TRUNCATED]"
)

// sensitiveFields are matched as substrings of lower-cased JSON keys and header names.
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"cookie",
	"api_key",
	"credential",
}

// LoggingMiddleware logs every request and its response with sensitive values masked.
// Only JSON bodies are logged; uploads and file downloads are summarized by size.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := requestLogger(base, r)

			logRequest(lg, r)

			ww := &responseWriter{ResponseWriter: w, body: &bytes.Buffer{}}
			next.ServeHTTP(ww, r)

			logResponse(lg, r, ww, time.Since(start))
		})
	}
}

func requestLogger(base *slog.Logger, r *http.Request) *slog.Logger {
	if lg, ok := logger.Lookup(r.Context()); ok {
		return lg
	}
	lg := base
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		lg = lg.With("request_id", reqID)
	}
	if traceID := r.Header.Get(TraceHeader); traceID != "" {
		lg = lg.With("trace_id", traceID)
	}
	return lg
}

// responseWriter captures the status and the first maxLogBody bytes of the body.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	if room := maxLogBody - rw.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.body.Write(b[:room])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequest(lg *slog.Logger, r *http.Request) {
	body := ""
	if isJSON(r.Header.Get("Content-Type")) && r.Body != nil {
		raw, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))
		body = filterSensitiveBody(raw)
	} else if r.ContentLength > 0 {
		body = "[" + r.Header.Get("Content-Type") + "]"
	}

	lg.Info("incoming request",
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
		"body", body,
	)
}

func logResponse(lg *slog.Logger, r *http.Request, rw *responseWriter, duration time.Duration) {
	status := rw.statusCode
	if status == 0 {
		status = http.StatusOK
	}

	level := slog.LevelInfo
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}

	body := ""
	if isJSON(rw.Header().Get("Content-Type")) {
		body = filterSensitiveBody(rw.body.Bytes())
		if rw.size > maxLogBody {
			body += truncatedTag
		}
	}

	lg.Log(r.Context(), level, "response",
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", status,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
		"body", body,
	)
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/json")
}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(name, field) {
			return true
		}
	}
	return false
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		// truncated or malformed JSON
		if isSensitive(string(body)) {
			return "[FILTERED - contains sensitive data]"
		}
		return string(body)
	}

	out, err := json.Marshal(filterSensitiveJSON(data))
	if err != nil {
		return "[ERROR - failed to marshal filtered JSON]"
	}
	return string(out)
}

func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				out[key] = filtered
				continue
			}
			out[key] = filterSensitiveJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = filterSensitiveJSON(item)
		}
		return out
	default:
		return v
	}
}
