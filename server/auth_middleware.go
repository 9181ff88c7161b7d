package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/novawrites/auth-service/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the authenticated user
	ContextKeyUser ContextKey = "user"
	// ContextKeyAccessToken stores the raw bearer token
	ContextKeyAccessToken ContextKey = "access_token"
)

// RequireBearerAuth validates the bearer token and resolves the current user,
// rejecting the request when the token or its session is no longer valid.
func (s *Server) RequireBearerAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rawToken := bearerToken(r)
			if rawToken == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Could not validate credentials"})
				return
			}

			user, err := s.auth.CurrentUser(r.Context(), rawToken)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyAccessToken, rawToken)
			next(w, r.WithContext(ctx))
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentUser(r *http.Request) *users.User {
	user, _ := r.Context().Value(ContextKeyUser).(*users.User)
	return user
}
