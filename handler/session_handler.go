package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/utils"
)

func (h *AuthHandler) ActiveSessions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sessions, err := h.service.ActiveSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch sessions")
		return
	}

	utils.Success(c, gin.H{
		"sessions": sessions,
	})
}
