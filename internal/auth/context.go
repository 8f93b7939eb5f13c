package auth

import (
	"context"

	"github.com/contactly/contactly/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	userContextKey   contextKey = "auth_user"
	holderContextKey contextKey = "auth_user_holder"
)

// UserHolder lets outer middleware see the user authenticated further
// down the handler chain.
type UserHolder struct {
	user *model.User
}

// User returns the recorded user, or nil.
func (h *UserHolder) User() *model.User {
	return h.user
}

// ContextWithUserHolder installs a holder that ContextWithUser fills in.
func ContextWithUserHolder(ctx context.Context, holder *UserHolder) context.Context {
	return context.WithValue(ctx, holderContextKey, holder)
}

// ContextWithUser adds the authenticated user to the context.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	if holder, ok := ctx.Value(holderContextKey).(*UserHolder); ok {
		holder.user = user
	}
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user from the context.
// Returns nil if not present.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// MustUserFromContext retrieves the authenticated user from the context.
// Panics if not present (use only behind the auth middleware).
func MustUserFromContext(ctx context.Context) *model.User {
	user := UserFromContext(ctx)
	if user == nil {
		panic("auth user not found - ensure auth middleware is applied")
	}
	return user
}

// UserIDFromContext returns the authenticated user's ID, or "" if absent.
func UserIDFromContext(ctx context.Context) string {
	user := UserFromContext(ctx)
	if user == nil {
		return ""
	}
	return user.ID
}
