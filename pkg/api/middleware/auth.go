package middleware

import (
	"log/slog"
	"net/http"

	"github.com/familybot/companion/pkg/api/response"
)

type Authenticator interface {
	IsAuthorized(userID string) bool
}

// Auth rejects requests whose X-User-ID header is not on the allowlist.
func Auth(authenticator Authenticator, next http.Handler) http.Handler {
	writer := response.JSONResponseWriter{}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if !authenticator.IsAuthorized(userID) {
			slog.Warn("unauthorized access attempt", "userID", userID, "path", r.URL.Path)
			writer.WriteErrorResponse(w, http.StatusForbidden, "user is not authorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
