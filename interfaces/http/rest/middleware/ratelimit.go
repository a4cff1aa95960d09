package middleware

import (
	"net/http"

	"boardcore/pkg/auth"
	"boardcore/pkg/common"
)

// RateLimit throttles by authenticated user when available, by remote IP
// otherwise. Autosave clients can be chatty, so the per-user budget should
// comfortably exceed one save per tier interval.
func RateLimit(ipPerMinute, userPerMinute int) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(ipPerMinute)
	userLimiter := auth.NewUserRateLimiter(userPerMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var allowed bool
			if userID, ok := common.GetUserID(r.Context()); ok {
				allowed, _ = userLimiter.Allow(r.Context(), userID)
			} else {
				allowed, _ = ipLimiter.Allow(r.Context(), r.RemoteAddr)
			}

			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
