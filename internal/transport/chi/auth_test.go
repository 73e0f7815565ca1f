package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/caselookup/internal/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_DisabledWithoutKeys(t *testing.T) {
	for name, keys := range map[string][]string{
		"nil":           nil,
		"empty strings": {"", ""},
	} {
		t.Run(name, func(t *testing.T) {
			handler := BearerAuthMiddleware(keys)(okHandler())

			req := httptest.NewRequest("GET", "/search?term=land", http.NoBody)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
			}
		})
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		reason  string
		message string
	}{
		{"missing header", "", "missing", "missing authorization header"},
		{"basic scheme", "Basic dXNlcjpwYXNz", "scheme", "authorization header must use Bearer scheme"},
		{"no token", "Bearer", "scheme", "authorization header must use Bearer scheme"},
		{"wrong key", "Bearer wrong-key", "invalid_key", "invalid api key"},
		{"key prefix", "Bearer secre", "invalid_key", "invalid api key"},
	}
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/cases/abc", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rejected := metrics.AuthRejectionsTotal.WithLabelValues(tt.reason)
			before := testutil.ToFloat64(rejected)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("got %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			if got := rr.Header().Get("WWW-Authenticate"); got != authRealm {
				t.Errorf("WWW-Authenticate: got %q", got)
			}
			if d := testutil.ToFloat64(rejected) - before; d != 1 {
				t.Errorf("rejections[%s]: got +%f, want +1", tt.reason, d)
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorCodeUnauthorized {
				t.Errorf("code: got %s, want %s", errResp.Code, ErrorCodeUnauthorized)
			}
			if errResp.Message != tt.message {
				t.Errorf("message: got %q, want %q", errResp.Message, tt.message)
			}
		})
	}
}

func TestAuthMiddleware_AcceptsEveryConfiguredKey(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"key1", "key2"})(okHandler())

	for _, header := range []string{"Bearer key1", "Bearer key2", "bearer key1"} {
		req := httptest.NewRequest("GET", "/search", http.NoBody)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%q: got %d, want %d", header, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	for _, path := range []string{PathHealth, PathMetrics} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_CaseRoutesRequireKey(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	for _, path := range []string{"/search", "/cases/ke-1", "/cases/ke-1/summary", "/health/", "/metrics/x"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: got %d, want %d", path, rr.Code, http.StatusUnauthorized)
		}
	}
}
