package tasks

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List() ([]Task, error) {
	tasks, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading task board: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Replace swaps the whole board for the given tasks. The board client always
// sends its full state, so there is no per-card update path. Cards without
// an id get one; blank statuses land in the todo column.
func (s *Service) Replace(tasks []Task) ([]Task, error) {
	for i := range tasks {
		if strings.TrimSpace(tasks[i].Title) == "" {
			return nil, fmt.Errorf("task %d: title is required", i)
		}
		if tasks[i].Status == "" {
			tasks[i].Status = StatusTodo
		}
		if !validStatuses[tasks[i].Status] {
			return nil, fmt.Errorf("task %d: invalid status %q", i, tasks[i].Status)
		}
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.NewString()
		}
	}
	if err := s.store.Save(tasks); err != nil {
		return nil, fmt.Errorf("saving task board: %w", err)
	}
	return tasks, nil
}
