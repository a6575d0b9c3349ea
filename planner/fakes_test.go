package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
)

type fakeRemote struct {
	mu      sync.Mutex
	todos   map[string]model.Todo
	nextID  int
	queries [][2]string
	updates []dto.TodoUpdate
	deletes []string

	createErr error
	queryErr  error
	updateErr error
	deleteErr error
}

func newFakeRemote(todos ...model.Todo) *fakeRemote {
	f := &fakeRemote{todos: map[string]model.Todo{}}
	for _, t := range todos {
		f.todos[t.TodoID] = t
	}
	return f
}

func (f *fakeRemote) Create(_ context.Context, todo model.Todo) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	todo.TodoID = fmt.Sprintf("remote-%d", f.nextID)
	f.todos[todo.TodoID] = todo
	return todo.TodoID, nil
}

func (f *fakeRemote) QueryRange(_ context.Context, start, end string) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, [2]string{start, end})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []model.Todo
	for _, t := range f.todos {
		if t.Date >= start && t.Date <= end {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRemote) Update(_ context.Context, id string, fields dto.TodoUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, fields)
	if f.updateErr != nil {
		return f.updateErr
	}
	t, ok := f.todos[id]
	if !ok {
		return NewRemoteUnknown("todo not found", nil)
	}
	if fields.Completed != nil {
		t.Completed = *fields.Completed
	}
	f.todos[id] = t
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.todos[id]; !ok {
		return NewRemoteUnknown("todo not found", nil)
	}
	delete(f.todos, id)
	return nil
}

func (f *fakeRemote) TestConnectivity(context.Context) bool { return true }

func (f *fakeRemote) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeIdentity struct {
	mu      sync.Mutex
	account *model.Account
	subs    map[int]func(*model.Account)
	next    int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{subs: map[int]func(*model.Account){}}
}

func (f *fakeIdentity) Login(_ context.Context, email, _ string) (model.Account, error) {
	acct := model.Account{ID: "user-1", Email: email}
	f.set(&acct)
	return acct, nil
}

func (f *fakeIdentity) Register(ctx context.Context, email, password string) (model.Account, error) {
	return f.Login(ctx, email, password)
}

func (f *fakeIdentity) Logout(context.Context) error {
	f.set(nil)
	return nil
}

func (f *fakeIdentity) OnAuthChange(fn func(*model.Account)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
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

func (f *fakeIdentity) set(acct *model.Account) {
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

// monday is 2024-05-06, a Monday.
func monday() time.Time {
	return time.Date(2024, time.May, 6, 15, 30, 0, 0, time.Local)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
