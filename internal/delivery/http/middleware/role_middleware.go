package middleware

import (
	"net/http"
	"slices"

	"contractor-booking/internal/domain/entity"
	"contractor-booking/pkg/response"
)

// RequireRole creates a middleware that checks if the actor has any of the required roles
// Actor is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !slices.Contains(allowedRoles, actor.Role) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireContractor is a convenience middleware for contractor-only endpoints
func RequireContractor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleContractor)(next)
}

// RequireUser is a convenience middleware for user-only endpoints
func RequireUser(next http.Handler) http.Handler {
	return RequireRole(entity.RoleUser)(next)
}
