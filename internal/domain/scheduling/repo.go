package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows an appointment listing. Zero values mean "no filter";
// Day takes precedence over the From/To range when both are set.
type ListFilter struct {
	Day        time.Time
	From       time.Time
	To         time.Time
	CustomerID uuid.UUID
	Status     string
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	// CreateBatch inserts a recurrence series atomically: either every
	// occurrence lands or none do.
	CreateBatch(ctx context.Context, appts []*Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error)

	// Conflict lookups return non-cancelled appointments whose time lies in
	// the closed interval [start, end] for the given resource.
	FindProfessionalConflicts(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]*Appointment, error)
	FindRoomConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time) ([]*Appointment, error)
}
