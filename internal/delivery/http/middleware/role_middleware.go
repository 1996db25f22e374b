package middleware

import (
	"net/http"

	"samkitchen-backend/internal/domain"
)

// RequireRole gates a route on one of the allowed roles.
// MUST be used AFTER AuthMiddleware.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromRequest(r)
			if !ok {
				http.Error(w, "Unauthorized: No actor found in context", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}
