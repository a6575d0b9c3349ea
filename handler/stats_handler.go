package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/utils"
)

// GetStats answers GET /api/todos/stats with counts for the given range.
func (h *TodoHandler) GetStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		utils.BadRequest(c, "start and end query parameters are required")
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), userID, start, end)
	if err != nil {
		respondError(c, h.logger, err, "Failed to compute stats")
		return
	}

	utils.Success(c, stats)
}
