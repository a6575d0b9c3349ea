package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/utils"
)

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Refresh token is required")
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, h.logger, err, "Failed to refresh token")
		return
	}

	utils.Success(c, pair)
}
