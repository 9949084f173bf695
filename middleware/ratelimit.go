package middleware

import (
	"encoding/json"
	"net/http"

	"licenseserver/logger"
	"licenseserver/models"
	"licenseserver/ratelimit"
)

// RateLimitMiddleware throttles the public validation endpoint per client
// address. Rejected requests get 429 and never reach the validation engine,
// so they leave no trace in the audit log.
func RateLimitMiddleware(limiter ratelimit.Limiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := GetClientIP(r)

			if !limiter.Allow(ip) {
				logger.WithFields(map[string]interface{}{
					"request_id": RequestID(r.Context()),
					"ip":         ip,
					"path":       r.URL.Path,
				}).Warn("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(models.ErrorResponse("Too many requests", nil))
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
