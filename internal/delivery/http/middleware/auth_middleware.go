package middleware

import (
	"context"
	"net/http"
	"strings"

	"medportal/internal/infrastructure/cache"
	"medportal/pkg/jwt"
	"medportal/pkg/response"
)

// SessionCookieName is the cookie carrying the session token for browser
// clients; API clients may use the Authorization header instead.
const SessionCookieName = "session_token"

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated identity resolved once per request at
// the middleware boundary and threaded through via context.
type Principal struct {
	UserID    uint
	Username  string
	Role      string
	SessionID string
}

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	sessions   cache.SessionStore
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessions cache.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// Authenticate resolves the principal or rejects with 401. Invalidated
// sessions are rejected even when the token itself is still unexpired.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := TokenFromRequest(r)
		if tokenString == "" {
			response.Unauthenticated(w, "Authentication required")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthenticated(w, "Invalid or expired session")
			return
		}

		valid, err := m.sessions.Valid(r.Context(), claims.SessionID)
		if err != nil {
			response.InternalServerError(w, "Failed to validate session")
			return
		}
		if !valid {
			response.Unauthenticated(w, "Session has been invalidated")
			return
		}

		principal := &Principal{
			UserID:    claims.UserID,
			Username:  claims.Username,
			Role:      claims.Role,
			SessionID: claims.SessionID,
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromRequest pulls the session token from the Authorization header,
// falling back to the session cookie. Empty string means anonymous.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// PrincipalFromContext extracts the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*Principal)
	return principal, ok
}
