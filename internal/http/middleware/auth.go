package middleware

import (
	"context"
	"net/http"
	"strings"

	"gigboard/internal/common"
	"gigboard/internal/domain/user"
	"gigboard/internal/http/response"
	"gigboard/internal/security"
)

type contextKey string

const (
	ContextUserIDKey contextKey = "user_id"
	ContextRoleKey   contextKey = "role"
	ContextAuthIDKey contextKey = "auth_id"
)

type AuthMiddleware struct {
	jwt   *security.JWTProvider
	users user.Repository
}

func NewAuthMiddleware(jwt *security.JWTProvider, users user.Repository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

// Authenticate resolves the actor once per request: the bearer token carries
// the external auth subject, the user directory maps it to an account. Role
// and onboarding state come from the directory, never from token claims.
// A valid subject without an account yet is let through with only the auth id
// in context, so the onboarding endpoint can provision the account; every
// other handler treats the missing user id as unauthenticated.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		subject, err := m.jwt.Parse(parts[1])
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		ctx := context.WithValue(r.Context(), ContextAuthIDKey, subject)
		account, err := m.users.FindByAuthID(ctx, subject)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			response.Error(w, err)
			return
		}
		ctx = context.WithValue(ctx, ContextUserIDKey, account.ID)
		ctx = context.WithValue(ctx, ContextRoleKey, account.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			activeRole, ok := r.Context().Value(ContextRoleKey).(user.Role)
			if !ok {
				response.Error(w, common.NewError(common.CodeForbidden, "role not found", nil))
				return
			}
			if activeRole != role {
				response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserIDFromContext(ctx context.Context) (common.UUID, bool) {
	id, ok := ctx.Value(ContextUserIDKey).(common.UUID)
	return id, ok
}

func RoleFromContext(ctx context.Context) (user.Role, bool) {
	role, ok := ctx.Value(ContextRoleKey).(user.Role)
	return role, ok
}

func AuthIDFromContext(ctx context.Context) (string, bool) {
	authID, ok := ctx.Value(ContextAuthIDKey).(string)
	return authID, ok && authID != ""
}
