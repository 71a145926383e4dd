package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS allows the configured origins. A "*" entry allows every origin, and
// credentials are then never allowed.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	wildcard := false
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == "*" {
			wildcard = true
		}
		allowed = append(allowed, o)
	}
	if wildcard {
		allowed = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", TraceHeader},
		ExposedHeaders:   []string{"Content-Disposition", TraceHeader},
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
}
