package dto

import (
	"time"

	"github.com/yakir1992/todoapp/model"
)

type CreateTodoRequest struct {
	Text      string            `json:"text" binding:"required"`
	Date      string            `json:"date" binding:"required,calendar_date"`
	Completed bool              `json:"completed"`
	Color     model.Color       `json:"color,omitempty" binding:"omitempty,todo_color"`
	Recurring *model.Recurrence `json:"recurring,omitempty"`
}

// TodoUpdate carries a partial update; nil fields are left untouched.
type TodoUpdate struct {
	Text           *string           `json:"text,omitempty" binding:"omitempty,min=1"`
	Completed      *bool             `json:"completed,omitempty"`
	Date           *string           `json:"date,omitempty" binding:"omitempty,calendar_date"`
	Color          *model.Color      `json:"color,omitempty" binding:"omitempty,todo_color"`
	Recurring      *model.Recurrence `json:"recurring,omitempty"`
	ClearRecurring bool              `json:"clear_recurring,omitempty"`
}

func (u TodoUpdate) Empty() bool {
	return u.Text == nil && u.Completed == nil && u.Date == nil &&
		u.Color == nil && u.Recurring == nil && !u.ClearRecurring
}

type TodoResponse struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Completed bool              `json:"completed"`
	Date      string            `json:"date"`
	Color     model.Color       `json:"color,omitempty"`
	Recurring *model.Recurrence `json:"recurring,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Convert model.Todo to TodoResponse
func ToTodoResponse(todo *model.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.TodoID,
		Text:      todo.Text,
		Completed: todo.Completed,
		Date:      todo.Date,
		Color:     todo.Color,
		Recurring: todo.Recurring,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}

func ToTodoResponses(todos []*model.Todo) []TodoResponse {
	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = ToTodoResponse(todo)
	}
	return responses
}

// ToModel converts a wire todo back into the domain type.
func (r TodoResponse) ToModel() model.Todo {
	return model.Todo{
		TodoID:    r.ID,
		Text:      r.Text,
		Completed: r.Completed,
		Date:      r.Date,
		Color:     r.Color,
		Recurring: r.Recurring,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
