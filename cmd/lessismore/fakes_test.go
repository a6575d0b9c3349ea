package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/planner"
)

// fakeBackend is an in-memory server shared across CLI invocations.
type fakeBackend struct {
	mu       sync.Mutex
	todos    map[string]model.Todo
	order    []string
	nextID   int
	account  *model.Account
	password string
	subs     map[int]func(*model.Account)
	nextSub  int
	queryErr error
}

func newFakeBackend(todos ...model.Todo) *fakeBackend {
	f := &fakeBackend{
		todos:    map[string]model.Todo{},
		subs:     map[int]func(*model.Account){},
		password: "secret1",
	}
	for _, t := range todos {
		f.todos[t.TodoID] = t
		f.order = append(f.order, t.TodoID)
	}
	return f
}

func (f *fakeBackend) get(id string) (model.Todo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	return t, ok
}

func (f *fakeBackend) Create(_ context.Context, todo model.Todo) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	todo.TodoID = fmt.Sprintf("t%d", f.nextID)
	f.todos[todo.TodoID] = todo
	f.order = append(f.order, todo.TodoID)
	return todo.TodoID, nil
}

func (f *fakeBackend) QueryRange(_ context.Context, start, end string) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []model.Todo
	for _, id := range f.order {
		if t, ok := f.todos[id]; ok && t.Date >= start && t.Date <= end {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeBackend) Update(_ context.Context, id string, fields dto.TodoUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok {
		return planner.NewRemoteUnknown("Todo not found", nil)
	}
	if fields.Completed != nil {
		t.Completed = *fields.Completed
	}
	f.todos[id] = t
	return nil
}

func (f *fakeBackend) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.todos[id]; !ok {
		return planner.NewRemoteUnknown("Todo not found", nil)
	}
	delete(f.todos, id)
	return nil
}

func (f *fakeBackend) TestConnectivity(context.Context) bool { return true }

func (f *fakeBackend) Stats(_ context.Context, start, end string) (model.TodoStats, error) {
	todos, err := f.QueryRange(context.Background(), start, end)
	var stats model.TodoStats
	for _, t := range todos {
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		if t.Recurring != nil {
			stats.Recurring++
		}
	}
	return stats, err
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (model.Account, error) {
	if password != f.password {
		return model.Account{}, planner.NewAuthFailure(planner.ReasonInvalidCredentials, "Invalid email or password")
	}
	acct := model.Account{ID: "user-1", Email: email}
	f.set(&acct)
	return acct, nil
}

func (f *fakeBackend) Register(_ context.Context, email, password string) (model.Account, error) {
	if len(password) < 6 {
		return model.Account{}, planner.NewAuthFailure(planner.ReasonWeakPassword, "")
	}
	acct := model.Account{ID: "user-1", Email: email}
	f.set(&acct)
	return acct, nil
}

func (f *fakeBackend) Logout(context.Context) error {
	f.set(nil)
	return nil
}

func (f *fakeBackend) Account() *model.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.account
}

func (f *fakeBackend) OnAuthChange(fn func(*model.Account)) func() {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	current := f.account
	f.mu.Unlock()

	fn(current)
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *fakeBackend) set(acct *model.Account) {
	f.mu.Lock()
	f.account = acct
	subs := make([]func(*model.Account), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(acct)
	}
}
