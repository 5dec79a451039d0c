package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Service enforces catalog rules over one entry kind: display names must be
// unique within the kind, and entries referenced by appointments cannot be
// deleted.
type Service struct {
	kind string
	repo EntryRepository
}

func NewService(kind string, repo EntryRepository) *Service {
	return &Service{kind: kind, repo: repo}
}

// Kind names the entry type served (professional, service or room).
func (s *Service) Kind() string { return s.kind }

func (s *Service) Create(ctx context.Context, e *Entry) error {
	e.DisplayName = strings.TrimSpace(e.DisplayName)
	if e.DisplayName == "" {
		return fmt.Errorf("display_name is required")
	}
	if existing, err := s.repo.GetByName(ctx, e.DisplayName); err == nil && existing != nil {
		return ErrDuplicateName
	}
	return s.repo.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (s *Service) Update(ctx context.Context, e *Entry) error {
	e.DisplayName = strings.TrimSpace(e.DisplayName)
	if e.DisplayName == "" {
		return fmt.Errorf("display_name is required")
	}
	if _, err := s.Get(ctx, e.ID); err != nil {
		return err
	}
	// A rename may not collide with another entry's name.
	if existing, err := s.repo.GetByName(ctx, e.DisplayName); err == nil && existing.ID != e.ID {
		return ErrDuplicateName
	}
	return s.repo.Update(ctx, e)
}

// Delete removes an entry unless appointments still reference it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountAppointments(ctx, id)
	if err != nil {
		return fmt.Errorf("checking appointment references: %w", err)
	}
	if count > 0 {
		return ErrInUse
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Entry, int, error) {
	return s.repo.List(ctx, limit, offset)
}
