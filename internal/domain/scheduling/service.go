package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	repo AppointmentRepository
	now  func() time.Time
}

func NewService(repo AppointmentRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateResult carries the booked occurrences plus advisory warnings for any
// occurrence that overlaps existing appointments.
type CreateResult struct {
	Appointments []*Appointment    `json:"appointments"`
	Warnings     []ConflictWarning `json:"warnings,omitempty"`
}

// CheckProfessionalAvailability counts non-cancelled appointments for the
// professional inside the conflict window around at. A repository failure is
// an error, never an empty window.
func (s *Service) CheckProfessionalAvailability(ctx context.Context, professionalID uuid.UUID, at time.Time) (*Availability, error) {
	start, end := ConflictWindow(at)
	conflicts, err := s.repo.FindProfessionalConflicts(ctx, professionalID, start, end)
	if err != nil {
		return nil, fmt.Errorf("checking professional availability: %w", err)
	}
	return &Availability{Count: len(conflicts), Conflicts: conflicts}, nil
}

// CheckRoomAvailability is the room counterpart of
// CheckProfessionalAvailability.
func (s *Service) CheckRoomAvailability(ctx context.Context, roomID uuid.UUID, at time.Time) (*Availability, error) {
	start, end := ConflictWindow(at)
	conflicts, err := s.repo.FindRoomConflicts(ctx, roomID, start, end)
	if err != nil {
		return nil, fmt.Errorf("checking room availability: %w", err)
	}
	return &Availability{Count: len(conflicts), Conflicts: conflicts}, nil
}

// Create books every occurrence of the request in one transaction. Conflicts
// are advisory: the occurrences are booked anyway and the overlaps come back
// as warnings. An availability check that fails outright aborts the whole
// booking before anything is written, and a failed insert rolls back the
// occurrences already written.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	base, verrs := req.Validate(s.now())
	if verrs != nil {
		return nil, verrs
	}

	dates, err := ExpandRecurrence(base, req.Recurrence, req.RecurrenceCount)
	if err != nil {
		return nil, err
	}

	var warnings []ConflictWarning
	for _, at := range dates {
		prof, err := s.CheckProfessionalAvailability(ctx, req.ProfessionalID, at)
		if err != nil {
			return nil, err
		}
		if !prof.Available() {
			warnings = append(warnings, ConflictWarning{AppointmentTime: at, Resource: "professional", Count: prof.Count})
		}
		room, err := s.CheckRoomAvailability(ctx, req.RoomID, at)
		if err != nil {
			return nil, err
		}
		if !room.Available() {
			warnings = append(warnings, ConflictWarning{AppointmentTime: at, Resource: "room", Count: room.Count})
		}
	}

	created := make([]*Appointment, 0, len(dates))
	for _, at := range dates {
		created = append(created, &Appointment{
			CustomerID:      req.CustomerID,
			ServiceID:       req.ServiceID,
			ProfessionalID:  req.ProfessionalID,
			RoomID:          req.RoomID,
			AppointmentTime: at,
			Status:          StatusPending,
		})
	}
	if err := s.repo.CreateBatch(ctx, created); err != nil {
		return nil, fmt.Errorf("creating appointments: %w", err)
	}

	return &CreateResult{Appointments: created, Warnings: warnings}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// Update reschedules an appointment. Recurrence fields are ignored: a booked
// occurrence moves on its own.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *CreateRequest) (*Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Recurrence = CadenceNone
	req.RecurrenceCount = 0
	at, verrs := req.Validate(s.now())
	if verrs != nil {
		return nil, verrs
	}

	a.CustomerID = req.CustomerID
	a.ServiceID = req.ServiceID
	a.ProfessionalID = req.ProfessionalID
	a.RoomID = req.RoomID
	a.AppointmentTime = at
	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// UpdateStatus moves an appointment to the given status. Every transition is
// allowed, including leaving a terminal-looking status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid appointment status: %s", status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}
