// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"context"

	"github.com/google/uuid"
)

// actorKey is a context key type for storing the authenticated actor.
type actorKey struct{}

// WithActor stores the authenticated actor ID in the context.
// This is typically called by the authentication middleware after successful token validation.
func WithActor(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// GetActor retrieves the authenticated actor ID from the context.
// Returns (uuid.Nil, false) if no actor was set.
func GetActor(ctx context.Context) (uuid.UUID, bool) {
	actorID, ok := ctx.Value(actorKey{}).(uuid.UUID)
	if !ok || actorID == uuid.Nil {
		return uuid.Nil, false
	}
	return actorID, true
}
