package planner

import (
	"context"

	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
)

// RemoteStore is the per-account todo collection the Store mirrors.
// Failures are *Error values.
type RemoteStore interface {
	// Create stores todo, ignoring its id, and returns the allocated id.
	Create(ctx context.Context, todo model.Todo) (string, error)
	// QueryRange returns the account's todos dated within [start, end].
	QueryRange(ctx context.Context, start, end string) ([]model.Todo, error)
	Update(ctx context.Context, id string, fields dto.TodoUpdate) error
	Delete(ctx context.Context, id string) error
	// TestConnectivity is a best-effort health check.
	TestConnectivity(ctx context.Context) bool
}

// IdentityProvider signs accounts in and out. Login and Register fail with
// KindAuthFailure errors.
type IdentityProvider interface {
	Login(ctx context.Context, email, password string) (model.Account, error)
	Register(ctx context.Context, email, password string) (model.Account, error)
	Logout(ctx context.Context) error
	// OnAuthChange delivers the current account (nil when signed out) now
	// and on every change until unsubscribe is called.
	OnAuthChange(fn func(*model.Account)) (unsubscribe func())
}
