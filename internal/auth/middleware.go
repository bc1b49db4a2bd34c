package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/apierrors"
	"github.com/mrcars/backend/internal/model"
)

// contextKey is an unexported type used for context keys to avoid collisions.
type contextKey int

const (
	claimsContextKey contextKey = iota
)

// Middleware returns an HTTP middleware that validates the session token
// from the auth cookie or the Authorization header and injects the
// authenticated claims into the request context.
func Middleware(tokens *TokenManager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r, cookieName)
			if tokenStr == "" {
				apierrors.NewUnauthorizedError("authentication required").Write(w, r)
				return
			}

			claims, err := tokens.Validate(tokenStr)
			if err != nil {
				apierrors.NewUnauthorizedError("invalid or expired token").Write(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest looks for the session token in the auth cookie first,
// then in a Bearer authorization header.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// RequireRole returns a middleware that restricts access to users whose role
// is in the provided set of allowed roles.
func RequireRole(allowed ...model.UserRole) func(http.Handler) http.Handler {
	allowedSet := make(map[model.UserRole]bool, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				apierrors.NewUnauthorizedError("authentication required").Write(w, r)
				return
			}
			if !allowedSet[claims.Role] {
				apierrors.NewForbiddenError("insufficient permissions").Write(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaimsFromContext extracts the Claims stored in the context by the auth
// middleware.
func GetClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// GetUserFromContext returns the authenticated user's ID and email from the
// request context.
func GetUserFromContext(ctx context.Context) (userID uuid.UUID, email string, ok bool) {
	claims := GetClaimsFromContext(ctx)
	if claims == nil {
		return uuid.Nil, "", false
	}
	return claims.UserID, claims.Email, true
}
