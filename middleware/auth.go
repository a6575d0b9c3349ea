package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/services"
	"github.com/yakir1992/todoapp/usecase"
	"github.com/yakir1992/todoapp/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID      = "user_id"
	ContextSessionID   = "session_id"
	ContextClaims      = "claims"
	ContextAccessToken = "access_token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*services.Claims, error)
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.TrackError("auth", "missing_token")
			utils.Unauthorized(c, "Missing or invalid token")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.Authenticate(c.Request.Context(), tokenString)
		switch {
		case errors.Is(err, usecase.ErrSessionExpired):
			utils.TrackError("auth", "token_revoked")
			utils.Unauthorized(c, "Token has been invalidated")
			return
		case errors.Is(err, usecase.ErrInvalidCredentials):
			utils.TrackError("auth", "invalid_token")
			utils.Unauthorized(c, "Invalid token")
			return
		case err != nil:
			utils.TrackError("auth", "blacklist_unavailable")
			utils.InternalError(c, "Unable to verify token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextClaims, claims)
		c.Set(ContextAccessToken, tokenString)
		c.Next()
	}
}

// UserID returns the authenticated user set by AuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}

func Claims(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}
