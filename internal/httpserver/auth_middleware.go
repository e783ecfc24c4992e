package httpserver

import (
	"context"
	"net/http"
	"strings"

	"echobackend/internal/security"
)

type contextKey string

const userIDContextKey contextKey = "currentUserID"

// WithUserID returns a new context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// CurrentUserID extracts the authenticated user ID from the request
// context, or "" if the request is unauthenticated.
func CurrentUserID(r *http.Request) string {
	if v := r.Context().Value(userIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// AuthMiddleware validates the Bearer token and attaches the caller's user
// ID to the context. Identity lives with the external provider that issued
// the token; no user lookup happens here.
func AuthMiddleware(tokens *security.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				http.Error(w, "missing or invalid Authorization header", http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimSpace(authHeader[len("Bearer "):])

			userID, err := tokens.Parse(tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
