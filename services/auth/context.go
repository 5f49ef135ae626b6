package auth

import (
	"context"

	"checkout-pricing-api/models"
)

type contextKey string

const userContextKey contextKey = "user"

func NewContext(ctx context.Context, user *models.AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext returns the authenticated user or nil.
func FromContext(ctx context.Context) *models.AuthUser {
	user, ok := ctx.Value(userContextKey).(*models.AuthUser)
	if !ok {
		return nil
	}
	return user
}
