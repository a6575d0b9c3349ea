package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/utils"
)

type TodoService interface {
	CreateTodo(ctx context.Context, userID string, req dto.CreateTodoRequest) (*model.Todo, error)
	GetTodosInRange(ctx context.Context, userID, start, end string) ([]*model.Todo, error)
	UpdateTodo(ctx context.Context, userID, todoID string, updates dto.TodoUpdate) (*model.Todo, error)
	DeleteTodo(ctx context.Context, userID, todoID string) error
	GetStats(ctx context.Context, userID, start, end string) (model.TodoStats, error)
}

type TodoHandler struct {
	service TodoService
	logger  *slog.Logger
}

func NewTodoHandler(service TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{service: service, logger: logger}
}

// GetTodos answers GET /api/todos?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *TodoHandler) GetTodos(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		utils.BadRequest(c, "start and end query parameters are required")
		return
	}

	todos, err := h.service.GetTodosInRange(c.Request.Context(), userID, start, end)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch todos")
		return
	}

	utils.Success(c, gin.H{
		"todos": dto.ToTodoResponses(todos),
	})
}

func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	todo, err := h.service.CreateTodo(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create todo")
		return
	}

	utils.Created(c, dto.ToTodoResponse(todo))
}

func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.TodoUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	todo, err := h.service.UpdateTodo(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update todo")
		return
	}

	utils.Success(c, dto.ToTodoResponse(todo))
}

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTodo(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete todo")
		return
	}

	utils.Success(c, gin.H{"message": "Todo deleted successfully"})
}
