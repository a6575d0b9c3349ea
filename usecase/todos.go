package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/utils"
)

type TodosRepository interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	GetTodosInRange(ctx context.Context, userID, start, end string) ([]*model.Todo, error)
	UpdateTodo(ctx context.Context, todoID, userID string, updates dto.TodoUpdate) (*model.Todo, error)
	DeleteTodo(ctx context.Context, todoID, userID string) error
	TestConnectivity(ctx context.Context) error
}

type TodosService struct {
	repo TodosRepository
	now  func() time.Time
}

func NewTodosService(repo TodosRepository) *TodosService {
	return &TodosService{repo: repo, now: time.Now}
}

// CreateTodo validates req and stores it under a server-allocated id.
func (svc *TodosService) CreateTodo(ctx context.Context, userID string, req dto.CreateTodoRequest) (*model.Todo, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if !utils.ValidDate(req.Date) {
		return nil, ErrInvalidDate
	}
	if !req.Color.Valid() {
		return nil, ErrInvalidColor
	}
	if err := validateRecurrence(req.Recurring); err != nil {
		return nil, err
	}

	now := svc.now().UTC()
	todo := &model.Todo{
		TodoID:    utils.GenerateID(),
		UserID:    userID,
		Text:      text,
		Completed: req.Completed,
		Date:      req.Date,
		Color:     req.Color,
		Recurring: req.Recurring,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.repo.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}

	utils.TrackTodoOperation("create")
	return todo, nil
}

// GetTodosInRange returns todos dated within [start, end] inclusive.
func (svc *TodosService) GetTodosInRange(ctx context.Context, userID, start, end string) ([]*model.Todo, error) {
	if !utils.ValidDate(start) || !utils.ValidDate(end) {
		return nil, ErrInvalidDate
	}
	// ISO dates order lexically.
	if start > end {
		return nil, ErrInvalidRange
	}
	return svc.repo.GetTodosInRange(ctx, userID, start, end)
}

func (svc *TodosService) UpdateTodo(ctx context.Context, userID, todoID string, updates dto.TodoUpdate) (*model.Todo, error) {
	if updates.Empty() {
		return nil, ErrEmptyUpdate
	}
	if updates.Text != nil {
		text := strings.TrimSpace(*updates.Text)
		if text == "" {
			return nil, ErrTextRequired
		}
		updates.Text = &text
	}
	if updates.Date != nil && !utils.ValidDate(*updates.Date) {
		return nil, ErrInvalidDate
	}
	if updates.Color != nil && !updates.Color.Valid() {
		return nil, ErrInvalidColor
	}
	if !updates.ClearRecurring {
		if err := validateRecurrence(updates.Recurring); err != nil {
			return nil, err
		}
	}

	todo, err := svc.repo.UpdateTodo(ctx, todoID, userID, updates)
	if err != nil {
		return nil, err
	}

	if updates.Completed != nil {
		utils.TrackTodoOperation("toggle")
	} else {
		utils.TrackTodoOperation("update")
	}
	return todo, nil
}

func (svc *TodosService) DeleteTodo(ctx context.Context, userID, todoID string) error {
	if err := svc.repo.DeleteTodo(ctx, todoID, userID); err != nil {
		return err
	}
	utils.TrackTodoOperation("delete")
	return nil
}

// GetStats counts the todos in [start, end].
func (svc *TodosService) GetStats(ctx context.Context, userID, start, end string) (model.TodoStats, error) {
	todos, err := svc.GetTodosInRange(ctx, userID, start, end)
	if err != nil {
		return model.TodoStats{}, err
	}

	var stats model.TodoStats
	for _, t := range todos {
		stats.Total++
		if t.Completed {
			stats.Completed++
		}
		if t.Recurring != nil {
			stats.Recurring++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

// TestConnectivity reports whether the store can be read and written.
func (svc *TodosService) TestConnectivity(ctx context.Context) bool {
	return svc.repo.TestConnectivity(ctx) == nil
}

func validateRecurrence(r *model.Recurrence) error {
	if r == nil {
		return nil
	}
	if !r.Frequency.Valid() {
		return ErrInvalidRecurrence
	}
	if r.EndDate != "" && !utils.ValidDate(r.EndDate) {
		return ErrInvalidRecurrence
	}
	return nil
}
