package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/utils"
)

func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	account, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Could not fetch user details")
		return
	}

	utils.Success(c, account)
}
