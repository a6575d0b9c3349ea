package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/repository"
)

func TestTodosService_CreateTodo(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateTodoRequest
		wantErr error
	}{
		{
			name: "plain todo",
			req:  dto.CreateTodoRequest{Text: "  buy milk ", Date: "2024-05-01"},
		},
		{
			name: "colored recurring todo",
			req: dto.CreateTodoRequest{
				Text:      "standup",
				Date:      "2024-05-06",
				Color:     model.ColorBlue,
				Recurring: &model.Recurrence{Frequency: model.FrequencyWeekly, EndDate: "2024-06-30"},
			},
		},
		{"blank text", dto.CreateTodoRequest{Text: "   ", Date: "2024-05-01"}, ErrTextRequired},
		{"bad date", dto.CreateTodoRequest{Text: "x", Date: "05/01/2024"}, ErrInvalidDate},
		{"bad color", dto.CreateTodoRequest{Text: "x", Date: "2024-05-01", Color: "orange"}, ErrInvalidColor},
		{
			name:    "bad frequency",
			req:     dto.CreateTodoRequest{Text: "x", Date: "2024-05-01", Recurring: &model.Recurrence{Frequency: "yearly"}},
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "bad end date",
			req:     dto.CreateTodoRequest{Text: "x", Date: "2024-05-01", Recurring: &model.Recurrence{Frequency: "daily", EndDate: "soon"}},
			wantErr: ErrInvalidRecurrence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeTodosRepo()
			svc := NewTodosService(repo)

			todo, err := svc.CreateTodo(context.Background(), "user-1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.todos)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, todo.TodoID)
			assert.Equal(t, "user-1", todo.UserID)
			assert.Equal(t, tt.req.Date, todo.Date)
			assert.NotContains(t, todo.Text, " buy")
			assert.Contains(t, repo.todos, todo.TodoID)
		})
	}
}

func TestTodosService_GetTodosInRange(t *testing.T) {
	repo := newFakeTodosRepo()
	svc := NewTodosService(repo)
	ctx := context.Background()

	_, err := svc.GetTodosInRange(ctx, "u", "2024-05-07", "2024-05-01")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.GetTodosInRange(ctx, "u", "yesterday", "2024-05-01")
	assert.ErrorIs(t, err, ErrInvalidDate)

	repo.err = repository.ErrIndexMissing
	_, err = svc.GetTodosInRange(ctx, "u", "2024-05-01", "2024-05-07")
	assert.ErrorIs(t, err, repository.ErrIndexMissing)
	assert.Equal(t, [2]string{"2024-05-01", "2024-05-07"}, repo.lastRange)
}

func TestTodosService_UpdateAndDelete(t *testing.T) {
	repo := newFakeTodosRepo()
	svc := NewTodosService(repo)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, "user-1", dto.CreateTodoRequest{Text: "buy milk", Date: "2024-05-01"})
	require.NoError(t, err)

	_, err = svc.UpdateTodo(ctx, "user-1", todo.TodoID, dto.TodoUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	blank := " "
	_, err = svc.UpdateTodo(ctx, "user-1", todo.TodoID, dto.TodoUpdate{Text: &blank})
	assert.ErrorIs(t, err, ErrTextRequired)

	done := true
	updated, err := svc.UpdateTodo(ctx, "user-1", todo.TodoID, dto.TodoUpdate{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	_, err = svc.UpdateTodo(ctx, "user-2", todo.TodoID, dto.TodoUpdate{Completed: &done})
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)

	require.NoError(t, svc.DeleteTodo(ctx, "user-1", todo.TodoID))
	assert.ErrorIs(t, svc.DeleteTodo(ctx, "user-1", todo.TodoID), repository.ErrTodoNotFound)
}

func TestTodosService_GetStats(t *testing.T) {
	repo := newFakeTodosRepo()
	svc := NewTodosService(repo)
	ctx := context.Background()

	for _, req := range []dto.CreateTodoRequest{
		{Text: "a", Date: "2024-05-01", Completed: true},
		{Text: "b", Date: "2024-05-02", Recurring: &model.Recurrence{Frequency: model.FrequencyDaily}},
		{Text: "c", Date: "2024-05-03"},
		{Text: "outside", Date: "2024-06-01"},
	} {
		_, err := svc.CreateTodo(ctx, "user-1", req)
		require.NoError(t, err)
	}

	stats, err := svc.GetStats(ctx, "user-1", "2024-05-01", "2024-05-07")
	require.NoError(t, err)
	assert.Equal(t, model.TodoStats{Total: 3, Completed: 1, Pending: 2, Recurring: 1}, stats)
}

func TestTodosService_TestConnectivity(t *testing.T) {
	repo := newFakeTodosRepo()
	svc := NewTodosService(repo)

	assert.True(t, svc.TestConnectivity(context.Background()))
	repo.probeErr = errors.New("no route to host")
	assert.False(t, svc.TestConnectivity(context.Background()))
}
