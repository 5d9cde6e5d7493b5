package middleware

import (
	"net/http"
	"strings"
)

// AdminCookieName is the cookie holding the admin console token
const AdminCookieName = "mla_admin_token"

// AdminTokenValidator validates admin console tokens
type AdminTokenValidator interface {
	ValidateAdminToken(token string) error
}

// AdminMiddleware rejects requests without a valid admin console token.
// The token is taken from the Authorization header first, then from the cookie.
func AdminMiddleware(validator AdminTokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "Bearer <token>"
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
					token = parts[1]
				}
			}

			if token == "" {
				if cookie, err := r.Cookie(AdminCookieName); err == nil {
					token = cookie.Value
				}
			}

			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "admin authentication required")
				return
			}

			if err := validator.ValidateAdminToken(token); err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
