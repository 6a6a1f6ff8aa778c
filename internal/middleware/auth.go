package middleware

import (
	"net/http"

	"salesdesk-be/internal/logger"
	"salesdesk-be/internal/utils"

	"go.uber.org/zap"
)

// SessionChecker reports whether a request carries a valid admin session.
type SessionChecker interface {
	Authenticated(r *http.Request) bool
}

// RequireSession rejects requests without a valid session with a 401 JSON body.
func RequireSession(sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.Authenticated(r) {
				logger.FromCtx(r.Context()).Debug("unauthenticated request",
					zap.String("path", r.URL.Path),
				)
				utils.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
