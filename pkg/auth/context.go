package auth

import (
	"context"

	pkgerrors "composer2/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user"

// UserContext carries the authenticated user through a request
type UserContext struct {
	UserID    string
	Email     string
	Platforms []string
}

// WithUser stores the user context in a request context
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user from a request context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, pkgerrors.NewUnauthorizedError("no user in context")
	}
	return user, nil
}
