// Package identity carries the authenticated caller through request contexts.
package identity

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is the caller resolved by the auth middleware.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, false
	}
	return id, true
}

// FromGin reads the identity stored on the request context of c.
func FromGin(c *gin.Context) (Identity, bool) {
	return FromContext(c.Request.Context())
}
