// auth.go - JWT authentication middleware
//
// Authentication Flow:
// 1. Extract the token from "Authorization: Bearer <token>", or from
//    ?access_token= on WebSocket upgrades (browsers cannot set headers there)
// 2. Validate it and reload the user it belongs to
// 3. Store the caller identity in the Gin context and the request context
//
// Authorization Flow (Admin):
// 1. RequireAuth has already run
// 2. Reject callers whose current access level is not admin

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-room-booking/apperrors"
	"go-room-booking/auth"
)

const identityKey = "identity" // Gin context key holding auth.Identity

// Authenticator resolves a raw token to the caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid, unrevoked token with 401.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c) // Header first, query parameter for WebSocket clients
		if token == "" {
			abort(c, apperrors.ErrUnauthorized)
			return
		}
		id, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			abort(c, err)
			return
		}
		// handlers read the Gin context, services the request context
		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireAdmin rejects authenticated non-admins with 403. It must run after
// RequireAuth, and runs before any handler looks anything up.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if !id.Authenticated() {
			abort(c, apperrors.ErrUnauthorized)
			return
		}
		if !id.IsAdmin() {
			abort(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireAuth, or the
// anonymous identity.
func CurrentIdentity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.FromContext(c.Request.Context())
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		return c.Query("access_token")
	}
	return ""
}

// abort records err for ErrorHandler and stops the chain.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
