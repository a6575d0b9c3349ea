package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StorageKey names the persisted client state.
const StorageKey = "todo-storage"

// StateStorage persists the window anchor between runs.
type StateStorage interface {
	// LoadStartDate reports ok=false when nothing was saved.
	LoadStartDate() (t time.Time, ok bool, err error)
	SaveStartDate(t time.Time) error
}

type persistedState struct {
	CurrentStartDate string `json:"currentStartDate"`
}

// FileStorage keeps state as JSON in a single file:
//
//	{"todo-storage": {"currentStartDate": "2024-05-06T00:00:00+03:00"}}
type FileStorage struct {
	Path string
	mu   sync.Mutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

func (f *FileStorage) LoadStartDate() (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	var doc map[string]persistedState
	if err := json.Unmarshal(data, &doc); err != nil {
		return time.Time{}, false, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	st, ok := doc[StorageKey]
	if !ok || st.CurrentStartDate == "" {
		return time.Time{}, false, nil
	}

	t, err := time.Parse(time.RFC3339Nano, st.CurrentStartDate)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	// The saved offset may differ from the current zone; keep its calendar day.
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local), true, nil
}

// SaveStartDate replaces the file atomically.
func (f *FileStorage) SaveStartDate(t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := map[string]persistedState{
		StorageKey: {CurrentStartDate: t.Format(time.RFC3339Nano)},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".state-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}

// MemoryStorage keeps state for the life of the process.
type MemoryStorage struct {
	mu    sync.Mutex
	start time.Time
	saved bool
}

func (m *MemoryStorage) LoadStartDate() (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start, m.saved, nil
}

func (m *MemoryStorage) SaveStartDate(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.start, m.saved = t, true
	return nil
}
