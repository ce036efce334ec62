package middleware

import (
	"net/http"

	"medportal/internal/domain/entity"
	"medportal/pkg/response"
)

// RequireRole gates a route on the principal's role. It runs after
// Authenticate, so a missing principal here means a wiring mistake and is
// reported as unauthenticated rather than forbidden.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.Unauthenticated(w, "Authentication required")
				return
			}

			if principal.Role != role {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireDoctor gates doctor-only routes
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}

// RequirePatient gates patient-only routes
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}
