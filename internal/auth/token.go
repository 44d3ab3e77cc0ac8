package auth

import (
	"net/http"
	"strings"
)

// AccessTokenCookie carries customer and admin session tokens issued at login.
const AccessTokenCookie = "access_token"

const bearerScheme = "bearer"

// ExtractAccessToken reads the session token from the access_token cookie,
// falling back to an Authorization bearer header. The scheme is matched
// case-insensitively and a bearer header with no token yields "".
func ExtractAccessToken(r *http.Request) string {
	// Cookie is preferred over the header.
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		if v := strings.TrimSpace(cookie.Value); v != "" {
			return v
		}
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
