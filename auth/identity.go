// identity.go - Request-scoped caller identity

package auth

import (
	"context"
	"time"

	"go-room-booking/models"
)

// Identity is the authenticated caller of a single request. The zero value
// is an anonymous caller.
type Identity struct {
	UserID      uint
	Name        string
	Email       string
	AccessLevel string
	TokenID     string
	ExpiresAt   time.Time
}

// NewIdentity binds a freshly loaded user to the token that authenticated it.
func NewIdentity(user *models.User, claims *Claims) Identity {
	id := Identity{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		AccessLevel: user.AccessLevel,
	}
	if claims != nil {
		id.TokenID = claims.ID
		if claims.ExpiresAt != nil {
			id.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	return id
}

func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.AccessLevel == models.AccessAdmin
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller identity, or the anonymous identity.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
