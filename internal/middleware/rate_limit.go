package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// DefaultAPIRateLimit caps general API traffic at 100 requests per hour
// per client IP.
func DefaultAPIRateLimit() RateLimitConfig {
	return RateLimitConfig{Requests: 100, Window: 1 * time.Hour}
}

// DefaultAuthRateLimit is the tighter limit for the credential endpoints
// (login, signup, password flows).
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{Requests: 10, Window: 1 * time.Minute}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status":"fail","message":"Too many requests from this IP, please try again in an hour!"}`))
		}),
	)
}
