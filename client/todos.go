package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
)

// Create stores todo and returns the id the server allocated.
func (c *Client) Create(ctx context.Context, todo model.Todo) (string, error) {
	var created dto.TodoResponse
	err := c.authed(ctx, call{
		method: http.MethodPost,
		path:   "/api/todos",
		body: dto.CreateTodoRequest{
			Text:      todo.Text,
			Date:      todo.Date,
			Completed: todo.Completed,
			Color:     todo.Color,
			Recurring: todo.Recurring,
		},
	}, &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// QueryRange returns nothing, without error, while signed out.
func (c *Client) QueryRange(ctx context.Context, start, end string) ([]model.Todo, error) {
	if c.currentSession() == nil {
		return nil, nil
	}

	var page struct {
		Todos []dto.TodoResponse `json:"todos"`
	}
	err := c.authed(ctx, call{
		method: http.MethodGet,
		path:   "/api/todos",
		query:  url.Values{"start": {start}, "end": {end}},
	}, &page)
	if err != nil {
		return nil, err
	}

	todos := make([]model.Todo, len(page.Todos))
	for i, t := range page.Todos {
		todos[i] = t.ToModel()
	}
	return todos, nil
}

func (c *Client) Update(ctx context.Context, id string, fields dto.TodoUpdate) error {
	return c.authed(ctx, call{
		method: http.MethodPatch,
		path:   "/api/todos/" + url.PathEscape(id),
		body:   fields,
	}, nil)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.authed(ctx, call{
		method: http.MethodDelete,
		path:   "/api/todos/" + url.PathEscape(id),
	}, nil)
}

// Stats returns completion counts for [start, end].
func (c *Client) Stats(ctx context.Context, start, end string) (model.TodoStats, error) {
	var stats model.TodoStats
	err := c.authed(ctx, call{
		method: http.MethodGet,
		path:   "/api/todos/stats",
		query:  url.Values{"start": {start}, "end": {end}},
	}, &stats)
	return stats, err
}

// Health reports the server's self-test.
func (c *Client) Health(ctx context.Context) (dto.HealthResponse, error) {
	var health dto.HealthResponse
	err := c.public(ctx, call{method: http.MethodGet, path: "/api/health"}, &health)
	return health, err
}

func (c *Client) TestConnectivity(ctx context.Context) bool {
	health, err := c.Health(ctx)
	return err == nil && health.Connected
}
