package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitByIP_BlocksAfterLimit(t *testing.T) {
	limited := RateLimitByIP(RateLimitConfig{Requests: 3, Window: 1 * time.Minute})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	serve := func() int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
		req.RemoteAddr = "10.1.2.3:4567"
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if code := serve(); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := serve(); code != http.StatusTooManyRequests {
		t.Errorf("over-limit request: status = %d, want 429", code)
	}
}

func TestRateLimitByIP_PerIPIsolation(t *testing.T) {
	limited := RateLimitByIP(RateLimitConfig{Requests: 1, Window: 1 * time.Minute})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	serve := func(addr string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
		req.RemoteAddr = addr
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := serve("10.0.0.1:1111"); code != http.StatusOK {
		t.Fatalf("first client: status = %d, want 200", code)
	}
	if code := serve("10.0.0.1:1111"); code != http.StatusTooManyRequests {
		t.Errorf("first client second request: status = %d, want 429", code)
	}
	// A different IP still gets through
	if code := serve("10.0.0.2:2222"); code != http.StatusOK {
		t.Errorf("second client: status = %d, want 200", code)
	}
}
