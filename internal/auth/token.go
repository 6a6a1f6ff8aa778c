package auth

import (
	"net/http"
	"strings"
)

const SessionCookie = "admin_session"

// ExtractSessionToken reads the session token from the cookie, falling back
// to a Bearer Authorization header.
func ExtractSessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
