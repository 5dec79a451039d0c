package tasks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store holds the whole board. The board is tiny and replaced wholesale on
// every save, so there is no per-task persistence.
type Store interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
}

// FileStore keeps the board in a JSON file. A file that cannot be written
// degrades to memory only: the board keeps working for the life of the
// process and the failure is logged once per save.
type FileStore struct {
	mu    sync.Mutex
	path  string
	cache []Task
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.snapshot(), nil
		}
		log.Warn().Err(err).Str("path", s.path).Msg("task board file unreadable, serving from memory")
		return s.snapshot(), nil
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("task board file corrupt, serving from memory")
		return s.snapshot(), nil
	}
	s.cache = tasks
	return s.snapshot(), nil
}

func (s *FileStore) Save(tasks []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = append([]Task(nil), tasks...)

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("task board not persisted, keeping in memory")
		return nil
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("task board not persisted, keeping in memory")
		return nil
	}
	return nil
}

func (s *FileStore) snapshot() []Task {
	return append([]Task(nil), s.cache...)
}

// MemoryStore is the test double and the fallback when no path is
// configured.
type MemoryStore struct {
	mu    sync.Mutex
	tasks []Task
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...), nil
}

func (s *MemoryStore) Save(tasks []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]Task(nil), tasks...)
	return nil
}
