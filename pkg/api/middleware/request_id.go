package middleware

import (
	"net/http"
	"sync/atomic"

	"github.com/familybot/companion/pkg/logger"
)

var requestID int64

// RequestID tags every request with a session-scoped sequential id so the
// log lines of one round-trip can be read together.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := atomic.AddInt64(&requestID, 1)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
	})
}
