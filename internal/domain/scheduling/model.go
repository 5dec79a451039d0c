package scheduling

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("appointment not found")

// Appointment statuses. Any status may move to any other: the front desk
// corrects mistakes freely, so the workflow is deliberately unconstrained.
const (
	StatusPending     = "pending"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusRescheduled = "rescheduled"
)

var validStatuses = map[string]bool{
	StatusPending:     true,
	StatusCompleted:   true,
	StatusCancelled:   true,
	StatusRescheduled: true,
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool { return validStatuses[s] }

// Appointment is one booked occurrence. A recurring booking creates
// independent rows, one per occurrence.
type Appointment struct {
	ID             uuid.UUID `json:"id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	ServiceID      uuid.UUID `json:"service_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	RoomID         uuid.UUID `json:"room_id"`

	AppointmentTime time.Time `json:"appointment_time"`
	Status          string    `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Availability is the outcome of a conflict-window check for one resource at
// one instant. It is advisory: a non-zero count warns but never blocks.
type Availability struct {
	Count     int            `json:"count"`
	Conflicts []*Appointment `json:"conflicts"`
}

// Available reports whether the window is free.
func (a *Availability) Available() bool { return a.Count == 0 }

// ConflictWarning flags an occurrence booked despite overlapping existing
// appointments for the named resource.
type ConflictWarning struct {
	AppointmentTime time.Time `json:"appointment_time"`
	Resource        string    `json:"resource"` // "professional" or "room"
	Count           int       `json:"count"`
}
