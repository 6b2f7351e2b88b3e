package auth

import (
	"context"

	"github.com/dukerupert/coursehub/internal/model"
)

type contextKey struct{}

// WithUser stores the authenticated admin in the context.
func WithUser(ctx context.Context, user model.AdminUser) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the admin placed by the auth middleware.
func UserFromContext(ctx context.Context) (model.AdminUser, bool) {
	u, ok := ctx.Value(contextKey{}).(model.AdminUser)
	return u, ok
}

// Username returns the authenticated admin's username, or "" when absent.
func Username(ctx context.Context) string {
	u, ok := UserFromContext(ctx)
	if !ok {
		return ""
	}
	return u.Username
}

func IsAdmin(ctx context.Context) bool {
	u, ok := UserFromContext(ctx)
	if !ok {
		return false
	}
	return u.Role.IsAdmin()
}
