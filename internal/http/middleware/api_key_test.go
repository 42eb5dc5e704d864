package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyAllowsMatchingKey(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	mw := APIKey("secret-key")
	req := httptest.NewRequest(http.MethodPost, "/api/scam-detection", nil)
	req.Header.Set("X-API-Key", "secret-key")
	rec := httptest.NewRecorder()

	mw(handler).ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestAPIKeyRejects(t *testing.T) {
	tests := []struct {
		name      string
		configKey string
		sentKey   string
	}{
		{"missing header", "secret-key", ""},
		{"wrong key", "secret-key", "other-key"},
		{"auth disabled without server key", "", "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			mw := APIKey(tt.configKey)
			req := httptest.NewRequest(http.MethodPost, "/api/scam-detection", nil)
			if tt.sentKey != "" {
				req.Header.Set("X-API-Key", tt.sentKey)
			}
			rec := httptest.NewRecorder()

			mw(handler).ServeHTTP(rec, req)

			if called {
				t.Fatalf("expected handler to not be called")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("expected JSON error body: %v", err)
			}
			if body["status"] != "error" || body["message"] != "Invalid API key" {
				t.Fatalf("unexpected error body %v", body)
			}
		})
	}
}
