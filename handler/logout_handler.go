package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/middleware"
	"github.com/yakir1992/todoapp/utils"
)

// Logout revokes the bearer token, and the refresh token when sent in the
// Refresh-Token header, then ends the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	err := h.service.Logout(c.Request.Context(),
		c.GetString(middleware.ContextAccessToken), claims, c.GetHeader("Refresh-Token"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to log out")
		return
	}

	utils.Success(c, gin.H{"message": "Successfully logged out"})
}
