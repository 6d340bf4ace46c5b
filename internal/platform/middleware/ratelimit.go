package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit returns middleware that rejects requests with 429 once the
// shared token bucket is empty. Every analysis fans out into four outbound
// fetches, so the limit protects both this service and the targets.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests. Please retry shortly."}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
