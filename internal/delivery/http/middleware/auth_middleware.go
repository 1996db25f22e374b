package middleware

import (
	"context"
	"net/http"
	"strings"

	"samkitchen-backend/internal/domain"
	"samkitchen-backend/pkg/utils"
)

// AuthMiddleware resolves the bearer token (header or accessToken cookie)
// into an ActorContext. Tokens carrying a role outside the closed set are
// rejected here, so downstream code never sees an unknown role.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			cookie, err := r.Cookie("accessToken")
			if err == nil {
				tokenString = cookie.Value
			}
		}

		if tokenString == "" {
			http.Error(w, "Unauthorized: No token provided", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		actor := domain.ActorContext{
			ID:    sub,
			Email: email,
			Role:  domain.Role(role),
		}
		if sub == "" || !actor.Role.Valid() {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), domain.ActorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromRequest pulls the actor AuthMiddleware stored; ok is false on
// routes that skipped authentication.
func ActorFromRequest(r *http.Request) (domain.ActorContext, bool) {
	actor, ok := r.Context().Value(domain.ActorContextKey).(domain.ActorContext)
	return actor, ok
}
