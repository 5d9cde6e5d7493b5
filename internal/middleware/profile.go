package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// ProfileCookieName is the cookie holding the client profile id
	ProfileCookieName = "mla_profile"
	// ProfileHeader is the header alternative for clients without cookies
	ProfileHeader = "X-Profile-ID"

	profileCookieMaxAge = 365 * 24 * 60 * 60 // 1 year
	maxProfileIDLength  = 64
)

// ProfileMiddleware resolves the client profile of the request.
// The cookie wins over the header; a missing or malformed id is replaced by a fresh one
// which is sent back in both the cookie and the header.
func ProfileMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID := ""
		if cookie, err := r.Cookie(ProfileCookieName); err == nil {
			profileID = cookie.Value
		}
		if profileID == "" {
			profileID = r.Header.Get(ProfileHeader)
		}

		if !validProfileID(profileID) {
			profileID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     ProfileCookieName,
				Value:    profileID,
				Path:     "/",
				MaxAge:   profileCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(ProfileHeader, profileID)

		ctx := context.WithValue(r.Context(), profileIDKey, profileID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetProfileID retrieves the client profile ID from context
func GetProfileID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(profileIDKey).(string)
	return id, ok && id != ""
}

// validProfileID accepts short ids that cannot break out of the profile key namespace
func validProfileID(id string) bool {
	if id == "" || len(id) > maxProfileIDLength {
		return false
	}
	return !strings.ContainsAny(id, ": \t\r\n")
}
