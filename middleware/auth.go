package middleware

import (
	"context"
	"net/http"
	"strings"

	"no-homers/models"
)

// UserContextKey is the key used to store user in request context
type UserContextKey string

const UserKey UserContextKey = "user"

// AuthCookie carries the session token for browser clients
const AuthCookie = "auth_token"

// TokenValidator resolves a session token to its user
type TokenValidator interface {
	GetUserFromToken(tokenString string) (*models.User, error)
}

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	tokens TokenValidator
	admins map[string]bool
}

// NewAuthMiddleware creates a new authentication middleware. Pickers named in
// adminPickers are administrators in addition to users flagged in storage.
func NewAuthMiddleware(tokens TokenValidator, adminPickers []string) *AuthMiddleware {
	admins := make(map[string]bool, len(adminPickers))
	for _, name := range adminPickers {
		admins[strings.ToUpper(strings.TrimSpace(name))] = true
	}
	return &AuthMiddleware{
		tokens: tokens,
		admins: admins,
	}
}

// RequireAuth middleware that requires authentication
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.getUserFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth middleware that optionally adds user to context if authenticated
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := m.getUserFromRequest(r)
		if user != nil {
			ctx := context.WithValue(r.Context(), UserKey, user)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets through only administrators. It runs after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r)
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !m.IsAdmin(user) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IsAdmin reports whether the user may manage pool spreads
func (m *AuthMiddleware) IsAdmin(user *models.User) bool {
	return user.IsAdmin || m.admins[user.Picker()]
}

// getUserFromRequest extracts and validates user from request
func (m *AuthMiddleware) getUserFromRequest(r *http.Request) (*models.User, error) {
	// Expected format: "Bearer <token>"
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return m.tokens.GetUserFromToken(parts[1])
		}
	}

	cookie, err := r.Cookie(AuthCookie)
	if err == nil && cookie.Value != "" {
		return m.tokens.GetUserFromToken(cookie.Value)
	}

	return nil, http.ErrNoCookie
}

// GetUserFromContext retrieves the authenticated user from request context
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserKey).(*models.User); ok {
		return user
	}
	return nil
}

// IsAuthenticated checks if the request has an authenticated user
func IsAuthenticated(r *http.Request) bool {
	return GetUserFromContext(r) != nil
}
