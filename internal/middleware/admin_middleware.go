package middleware

import (
	"net/http"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
)

// AdminOnlyMiddleware runs after AuthMiddleware and rejects non-admin
// sessions.
func AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing session", nil)
			return
		}
		if !s.IsAdmin() {
			utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PasswordChangeMiddleware blocks an associate who still holds a temporary
// password from everything except the allowed paths.
func PasswordChangeMiddleware(allowed ...string) func(http.Handler) http.Handler {
	allow := make(map[string]struct{}, len(allowed))
	for _, p := range allowed {
		allow[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFromContext(r.Context())
			if ok && s.IsAssociate() && s.RequiresPasswordChange {
				if _, pass := allow[r.URL.Path]; !pass {
					utils.RespondErrorWithCode(
						w, http.StatusForbidden, utils.ErrCodePasswordChangeRequired,
						"Set a new password before continuing", nil,
					)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
