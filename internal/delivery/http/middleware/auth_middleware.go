package middleware

import (
	"context"
	"net/http"
	"strings"

	"contractor-booking/internal/domain/entity"
	"contractor-booking/pkg/jwt"
	"contractor-booking/pkg/response"
)

type contextKey string

const ActorKey contextKey = "actor"

type AuthMiddleware struct {
	jwtService *jwt.JWTService
}

func NewAuthMiddleware(jwtService *jwt.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := WithActor(r.Context(), claims.Actor())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithActor stores the authenticated actor in ctx.
func WithActor(ctx context.Context, actor entity.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActorFromContext extracts the authenticated actor from context
func GetActorFromContext(ctx context.Context) (entity.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(entity.Actor)
	return actor, ok
}
