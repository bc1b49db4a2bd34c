package auth

import (
	"net/http"
	"strings"
)

// Guard redirects browsers to the right side of the login wall based on
// whether a session cookie is present. It only checks presence: the cookie
// may be expired or forged, and the API middleware rejects it then. The
// worst a forged cookie buys is a dashboard shell full of failed requests.
type Guard struct {
	cookieMarker      string
	protectedPrefixes []string
	authPrefixes      []string
	loginPath         string
	homePath          string
}

// NewGuard creates a Guard. cookieMarker is the substring identifying the
// session cookie by name, protectedPrefixes the path prefixes that require
// a session, and authPrefixes the sign-in pages a signed-in browser should
// skip.
func NewGuard(cookieMarker string, protectedPrefixes, authPrefixes []string, loginPath, homePath string) *Guard {
	return &Guard{
		cookieMarker:      cookieMarker,
		protectedPrefixes: protectedPrefixes,
		authPrefixes:      authPrefixes,
		loginPath:         loginPath,
		homePath:          homePath,
	}
}

// Middleware applies the guard's redirect rules before passing the request
// through.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signedIn := g.hasSessionCookie(r)
		path := r.URL.Path

		if !signedIn && hasPrefix(path, g.protectedPrefixes) {
			http.Redirect(w, r, g.loginPath, http.StatusFound)
			return
		}
		if signedIn && hasPrefix(path, g.authPrefixes) {
			http.Redirect(w, r, g.homePath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) hasSessionCookie(r *http.Request) bool {
	for _, c := range r.Cookies() {
		if strings.Contains(c.Name, g.cookieMarker) {
			return true
		}
	}
	return false
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
