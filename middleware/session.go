package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

type SessionToucher interface {
	TouchSession(ctx context.Context, sessionID string) error
}

// SessionActivity records last activity for the caller's session once the
// request has been served. Must run after AuthMiddleware.
func SessionActivity(sessions SessionToucher, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		sessionID := c.GetString(ContextSessionID)
		if sessionID == "" || c.IsAborted() {
			return
		}
		if err := sessions.TouchSession(c.Request.Context(), sessionID); err != nil {
			logger.Warn("failed to record session activity", "session_id", sessionID, "error", err)
		}
	}
}
