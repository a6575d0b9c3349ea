package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/services"
	"github.com/yakir1992/todoapp/usecase"
	"github.com/yakir1992/todoapp/utils"
)

type AuthService interface {
	Register(ctx context.Context, creds model.Credentials, meta usecase.ClientMeta) (dto.AuthResponse, error)
	Login(ctx context.Context, creds model.Credentials, meta usecase.ClientMeta) (dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (dto.TokenPair, error)
	Logout(ctx context.Context, accessToken string, claims *services.Claims, refreshToken string) error
	Profile(ctx context.Context, userID string) (model.Account, error)
	ActiveSessions(ctx context.Context, userID string) ([]*model.Session, error)
}

type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var creds model.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.BadRequest(c, "Email and password are required")
		return
	}

	resp, err := h.service.Register(c.Request.Context(), creds, clientMeta(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to register")
		return
	}

	utils.Created(c, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var creds model.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.BadRequest(c, "Email and password are required")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), creds, clientMeta(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to log in")
		return
	}

	utils.Success(c, resp)
}

func clientMeta(c *gin.Context) usecase.ClientMeta {
	return usecase.ClientMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
}
