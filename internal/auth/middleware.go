package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/markvault/markvault/internal/httputil"
	"github.com/markvault/markvault/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const userContextKey ContextKey = "auth_user"

// Middleware guards protected routes. It verifies the bearer token, resolves
// the subject to a user record and attaches the sanitized record to the
// request context before any handler logic runs.
type Middleware struct {
	tokens TokenService
	users  UserStore
}

func NewMiddleware(tokens TokenService, users UserStore) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// RequireAuth validates the access token and resolves the caller's identity.
// Every failure mode (missing header, malformed scheme, bad signature,
// expired token, deleted account) produces the same 401 response; the
// sub-cause is never surfaced to the client.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondUnauthenticated(w)
			return
		}

		claims, err := m.tokens.VerifyToken(token)
		if err != nil {
			respondUnauthenticated(w)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			respondUnauthenticated(w)
			return
		}

		// The account may have been deleted since the token was issued
		authedUser, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			respondUnauthenticated(w)
			return
		}

		ctx := ContextWithUser(r.Context(), authedUser.Sanitized())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithUser attaches an authenticated user to the context
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// GetUserFromContext extracts the authenticated user from the request
// context. The returned record never carries a password hash.
func GetUserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userContextKey).(*user.User)
	return u, ok
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func respondUnauthenticated(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "unauthenticated", httputil.CodeUnauthenticated, http.StatusUnauthorized)
}
