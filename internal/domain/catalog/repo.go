package catalog

import (
	"context"

	"github.com/google/uuid"
)

type EntryRepository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	// GetByName matches display_name case-insensitively.
	GetByName(ctx context.Context, name string) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Entry, int, error)
	// CountAppointments reports how many appointments reference the entry.
	CountAppointments(ctx context.Context, id uuid.UUID) (int, error)
}
