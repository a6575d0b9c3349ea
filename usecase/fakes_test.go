package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/repository"
)

type fakeTodosRepo struct {
	mu        sync.Mutex
	todos     map[string]*model.Todo
	err       error
	probeErr  error
	lastRange [2]string
}

func newFakeTodosRepo() *fakeTodosRepo {
	return &fakeTodosRepo{todos: map[string]*model.Todo{}}
}

func (f *fakeTodosRepo) CreateTodo(_ context.Context, todo *model.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.todos[todo.TodoID] = todo
	return nil
}

func (f *fakeTodosRepo) GetTodosInRange(_ context.Context, userID, start, end string) ([]*model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRange = [2]string{start, end}
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Todo
	for _, t := range f.todos {
		if t.UserID == userID && t.Date >= start && t.Date <= end {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTodosRepo) UpdateTodo(_ context.Context, todoID, userID string, updates dto.TodoUpdate) (*model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[todoID]
	if !ok || t.UserID != userID {
		return nil, repository.ErrTodoNotFound
	}
	if updates.Text != nil {
		t.Text = *updates.Text
	}
	if updates.Completed != nil {
		t.Completed = *updates.Completed
	}
	return t, nil
}

func (f *fakeTodosRepo) DeleteTodo(_ context.Context, todoID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[todoID]
	if !ok || t.UserID != userID {
		return repository.ErrTodoNotFound
	}
	delete(f.todos, todoID)
	return nil
}

func (f *fakeTodosRepo) TestConnectivity(context.Context) error { return f.probeErr }

type fakeUsersRepo struct {
	byEmail map[string]*model.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*model.User{}}
}

func (f *fakeUsersRepo) AddUser(_ context.Context, user *model.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrEmailExists
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsersRepo) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUsersRepo) FindUser(_ context.Context, userID string) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	sessions map[string]*model.Session
	// onGet runs inside GetSession, before the lookup.
	onGet func()
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*model.Session{}}
}

func (f *fakeSessionRepo) CreateSession(_ context.Context, s *model.Session) error {
	f.sessions[s.SessionID] = s
	return nil
}

func (f *fakeSessionRepo) GetSession(_ context.Context, id string) (*model.Session, error) {
	if f.onGet != nil {
		f.onGet()
	}
	return f.sessions[id], nil
}

func (f *fakeSessionRepo) TouchSession(_ context.Context, id string) error {
	s, ok := f.sessions[id]
	if !ok || !s.IsActive {
		return repository.ErrSessionNotFound
	}
	s.LastActivityAt = time.Now()
	return nil
}

func (f *fakeSessionRepo) EndSession(_ context.Context, id, userID string) error {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return repository.ErrSessionNotFound
	}
	s.IsActive = false
	return nil
}

func (f *fakeSessionRepo) GetUserActiveSessions(_ context.Context, userID string) ([]*model.Session, error) {
	var out []*model.Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: map[string]time.Time{}}
}

func (f *fakeBlacklist) BlacklistToken(_ context.Context, token string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = exp
	return nil
}

func (f *fakeBlacklist) RevokeIfNew(_ context.Context, token string, exp time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.revoked[token]; ok {
		return false, nil
	}
	f.revoked[token] = exp
	return true, nil
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[token]
	return ok, nil
}
