package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

const apiKeyHeader = "X-API-Key"

// APIKey enforces the shared inbound API key on protected routes. Missing or
// mismatched keys get a structured 401 body so callers can distinguish auth
// failures from degraded-but-successful replies.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				writeAuthError(w)
				return
			}
			got := r.Header.Get(apiKeyHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeAuthError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": "Invalid API key",
	})
}
