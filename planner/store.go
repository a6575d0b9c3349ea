package planner

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
)

// State is what a view renders. Snapshots never share memory with the Store.
type State struct {
	Days             []model.DayTodos
	CurrentStartDate time.Time
	IsLoading        bool
	Error            string
}

type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// SettingsUpdate changes a todo's presentation and recurrence. Nil fields are
// left alone.
type SettingsUpdate struct {
	Color          *model.Color
	Recurring      *model.Recurrence
	ClearRecurring bool
}

// Store mirrors one week of the remote collection. Operations may be called
// from any goroutine; the lock is never held across a remote call, so
// overlapping operations interleave and the last state write wins.
type Store struct {
	remote  RemoteStore
	storage StateStorage
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

type Option func(*Store)

func WithStorage(s StateStorage) Option { return func(st *Store) { st.storage = s } }

func WithClock(now func() time.Time) Option { return func(st *Store) { st.now = now } }

// WithIDGenerator sets the id source for recurrence copies.
func WithIDGenerator(fn func() string) Option { return func(st *Store) { st.newID = fn } }

func WithLogger(l *slog.Logger) Option { return func(st *Store) { st.logger = l } }

// NewStore builds a Store anchored at the persisted start date, or today.
// The window starts empty; call FetchTodos to populate it.
func NewStore(remote RemoteStore, opts ...Option) *Store {
	s := &Store{
		remote:  remote,
		storage: &MemoryStorage{},
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:    map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}

	start := StartOfDay(s.now())
	if saved, ok, err := s.storage.LoadStartDate(); err != nil {
		s.logger.Warn("ignoring unreadable saved state", "error", err)
	} else if ok {
		start = StartOfDay(saved)
	}

	s.state = State{
		Days:             GenerateDays(start, DefaultDayCount),
		CurrentStartDate: start,
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// VisibleDays returns the first n buckets of the window; n outside
// DayCounts shows the whole window.
func (s *Store) VisibleDays(n int) []model.DayTodos {
	if !ValidDayCount(n) {
		n = DefaultDayCount
	}
	days := s.Snapshot().Days
	if n > len(days) {
		n = len(days)
	}
	return days[:n]
}

// Subscribe calls fn with a snapshot after every state change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// FetchTodos rebuilds the window at the current start date from a range
// query. On failure the previous window stays and Error explains why.
func (s *Store) FetchTodos(ctx context.Context) error {
	var start time.Time
	s.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
		start = st.CurrentStartDate
	})

	days := GenerateDays(start, DefaultDayCount)
	first, last := days[0].Date, days[len(days)-1].Date
	s.logger.Debug("fetching todos", "start", first, "end", last)

	todos, err := s.remote.QueryRange(ctx, first, last)
	if err != nil {
		msg := fetchErrorMessage(err)
		s.logger.Error("failed to fetch todos", "error", err, "kind", KindOf(err))
		s.update(func(st *State) {
			st.Error = msg
			st.IsLoading = false
		})
		return err
	}

	for i := range days {
		for _, t := range todos {
			if t.Date == days[i].Date {
				days[i].Todos = append(days[i].Todos, t.Clone())
			}
		}
	}

	s.update(func(st *State) {
		st.Days = days
		st.IsLoading = false
	})
	return nil
}

// AddTodo creates a todo remotely and, once the store has assigned its id,
// appends it to the bucket for date. Nothing is inserted locally on failure.
func (s *Store) AddTodo(ctx context.Context, date, text string) (model.Todo, error) {
	s.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})

	todo := model.Todo{
		Text:      text,
		Completed: false,
		Date:      date,
	}
	id, err := s.remote.Create(ctx, todo)
	if err != nil {
		s.logger.Error("failed to add todo", "date", date, "error", err)
		s.update(func(st *State) {
			st.Error = msgAddFailed
			st.IsLoading = false
		})
		return model.Todo{}, err
	}
	todo.TodoID = id

	s.update(func(st *State) {
		st.Days = mapBucket(st.Days, date, func(todos []model.Todo) []model.Todo {
			return append(cloneTodos(todos), todo.Clone())
		})
		st.IsLoading = false
	})
	return todo, nil
}

// ToggleTodo flips completed remotely, then locally. An id not in the bucket
// is a no-op. Two toggles in flight can leave either state locally.
func (s *Store) ToggleTodo(ctx context.Context, date, id string) error {
	todo, ok := s.find(date, id)
	if !ok {
		return nil
	}

	completed := !todo.Completed
	if err := s.remote.Update(ctx, id, dto.TodoUpdate{Completed: &completed}); err != nil {
		s.logger.Error("failed to toggle todo", "id", id, "error", err)
		s.update(func(st *State) { st.Error = msgUpdateFailed })
		return err
	}

	s.update(func(st *State) {
		st.Days = mapTodo(st.Days, date, id, func(t model.Todo) model.Todo {
			t.Completed = !t.Completed
			return t
		})
	})
	return nil
}

// DeleteTodo deletes remotely, then drops the todo from its bucket. The
// remote call is made even when the id is not in the window.
func (s *Store) DeleteTodo(ctx context.Context, date, id string) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete todo", "id", id, "error", err)
		s.update(func(st *State) { st.Error = msgDeleteFailed })
		return err
	}

	s.update(func(st *State) {
		st.Days = mapBucket(st.Days, date, func(todos []model.Todo) []model.Todo {
			out := make([]model.Todo, 0, len(todos))
			for _, t := range todos {
				if t.TodoID != id {
					out = append(out, t)
				}
			}
			return out
		})
	})
	return nil
}

// MoveTodo re-dates a todo between buckets in memory only; the remote copy
// keeps its old date until something writes it. A destination outside the
// window drops the todo from view. Reports whether the todo was found.
func (s *Store) MoveTodo(fromDate, toDate, id string) bool {
	var found bool
	s.update(func(st *State) {
		todo, ok := findIn(st.Days, fromDate, id)
		if !ok {
			return
		}
		found = true
		moved := todo.Clone()
		moved.Date = toDate

		days := make([]model.DayTodos, len(st.Days))
		for i, day := range st.Days {
			switch day.Date {
			case fromDate:
				day.Todos = withoutTodo(day.Todos, id)
			case toDate:
				day.Todos = append(cloneTodos(day.Todos), moved)
			}
			days[i] = day
		}
		st.Days = days
	})
	return found
}

// UpdateTodoSettings applies color and recurrence changes in memory, then
// copies a recurring todo into the later buckets it recurs on. Settings are
// not written remotely. Reports whether the todo was found.
func (s *Store) UpdateTodoSettings(date, id string, upd SettingsUpdate) bool {
	var found bool
	s.update(func(st *State) {
		todo, ok := findIn(st.Days, date, id)
		if !ok {
			return
		}
		found = true

		updated := todo.Clone()
		if upd.Color != nil {
			updated.Color = *upd.Color
		}
		if upd.ClearRecurring {
			updated.Recurring = nil
		} else if upd.Recurring != nil {
			r := *upd.Recurring
			updated.Recurring = &r
		}

		derived := ExpandRecurring(updated, date, st.Days, s.newID)

		days := make([]model.DayTodos, len(st.Days))
		for i, day := range st.Days {
			if day.Date == date {
				day.Todos = replaceTodo(day.Todos, id, updated)
			} else {
				var extra []model.Todo
				for _, d := range derived {
					if d.Date == day.Date {
						extra = append(extra, d.Todo)
					}
				}
				if len(extra) > 0 {
					day.Todos = append(cloneTodos(day.Todos), extra...)
				}
			}
			days[i] = day
		}
		st.Days = days
	})
	return found
}

// NavigateWeek moves the window seven days back or forward, saves the new
// anchor and fetches it.
func (s *Store) NavigateWeek(ctx context.Context, dir Direction) error {
	var start time.Time
	s.update(func(st *State) {
		start = StartOfDay(st.CurrentStartDate.AddDate(0, 0, 7*int(dir)))
		st.CurrentStartDate = start
		st.Days = GenerateDays(start, DefaultDayCount)
	})
	s.persist(start)
	return s.FetchTodos(ctx)
}

// SetStartDate anchors the window at t's day, saves it and fetches.
func (s *Store) SetStartDate(ctx context.Context, t time.Time) error {
	start := StartOfDay(t)
	s.update(func(st *State) {
		st.CurrentStartDate = start
		st.Days = GenerateDays(start, DefaultDayCount)
	})
	s.persist(start)
	return s.FetchTodos(ctx)
}

// Reset empties the window without touching the remote store.
func (s *Store) Reset() {
	s.update(func(st *State) {
		st.Days = GenerateDays(st.CurrentStartDate, DefaultDayCount)
		st.Error = ""
		st.IsLoading = false
	})
}

func (s *Store) persist(start time.Time) {
	if err := s.storage.SaveStartDate(start); err != nil {
		s.logger.Warn("failed to save start date", "error", err)
	}
}

func (s *Store) find(date, id string) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findIn(s.state.Days, date, id)
}

// update applies fn under the lock and notifies subscribers outside it.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := cloneState(s.state)
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(cloneState(snap))
	}
}

func findIn(days []model.DayTodos, date, id string) (model.Todo, bool) {
	for _, day := range days {
		if day.Date != date {
			continue
		}
		for _, t := range day.Todos {
			if t.TodoID == id {
				return t, true
			}
		}
	}
	return model.Todo{}, false
}

// mapBucket returns a copy of days with fn applied to the bucket for date.
func mapBucket(days []model.DayTodos, date string, fn func([]model.Todo) []model.Todo) []model.DayTodos {
	out := make([]model.DayTodos, len(days))
	for i, day := range days {
		if day.Date == date {
			day.Todos = fn(day.Todos)
		}
		out[i] = day
	}
	return out
}

func mapTodo(days []model.DayTodos, date, id string, fn func(model.Todo) model.Todo) []model.DayTodos {
	return mapBucket(days, date, func(todos []model.Todo) []model.Todo {
		out := make([]model.Todo, len(todos))
		for i, t := range todos {
			if t.TodoID == id {
				t = fn(t.Clone())
			}
			out[i] = t
		}
		return out
	})
}

func replaceTodo(todos []model.Todo, id string, with model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	for i, t := range todos {
		if t.TodoID == id {
			t = with
		}
		out[i] = t
	}
	return out
}

func withoutTodo(todos []model.Todo, id string) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if t.TodoID != id {
			out = append(out, t)
		}
	}
	return out
}

func cloneTodos(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos), len(todos)+1)
	for i, t := range todos {
		out[i] = t.Clone()
	}
	return out
}

func cloneState(st State) State {
	days := make([]model.DayTodos, len(st.Days))
	for i, day := range st.Days {
		days[i] = model.DayTodos{Date: day.Date, Todos: cloneTodos(day.Todos)}
	}
	st.Days = days
	return st
}
