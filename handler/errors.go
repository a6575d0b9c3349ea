package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/middleware"
	"github.com/yakir1992/todoapp/repository"
	"github.com/yakir1992/todoapp/usecase"
	"github.com/yakir1992/todoapp/utils"
)

// respondError maps a service or repository error onto the response envelope.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrIndexMissing):
		utils.IndexMissing(c, "The todos query requires an index that has not been created", repository.IndexRemediation)
	case errors.Is(err, repository.ErrTodoNotFound):
		utils.NotFound(c, "Todo not found")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		utils.Fail(c, http.StatusUnauthorized, dto.CodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, usecase.ErrSessionExpired):
		utils.Unauthorized(c, "Session has ended, please log in again")
	case errors.Is(err, usecase.ErrWeakPassword):
		utils.Fail(c, http.StatusBadRequest, dto.CodeWeakPassword, "Password should be at least 6 characters")
	case errors.Is(err, usecase.ErrInvalidEmail):
		utils.Fail(c, http.StatusBadRequest, dto.CodeInvalidEmail, "Invalid email format")
	case errors.Is(err, usecase.ErrEmailInUse):
		utils.Conflict(c, dto.CodeEmailInUse, "Email is already registered")
	case errors.Is(err, usecase.ErrTextRequired),
		errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrInvalidRange),
		errors.Is(err, usecase.ErrInvalidColor),
		errors.Is(err, usecase.ErrInvalidRecurrence),
		errors.Is(err, usecase.ErrEmptyUpdate):
		utils.BadRequest(c, err.Error())
	default:
		utils.TrackError("handler", "internal")
		logger.Error(fallback, "error", err, "path", c.FullPath(), "request_id", c.GetString(middleware.ContextRequestID))
		utils.InternalError(c, fallback)
	}
}

func currentUser(c *gin.Context) (string, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		utils.Unauthorized(c, "Missing user ID")
		return "", false
	}
	return id, true
}
