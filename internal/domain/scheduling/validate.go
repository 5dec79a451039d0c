package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ValidationErrors maps a request field to the problem with it. All fields
// are checked so the caller can surface every problem at once.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CreateRequest is a booking request. Date and Time arrive as the separate
// strings the booking form collects.
type CreateRequest struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	ServiceID      uuid.UUID `json:"service_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	RoomID         uuid.UUID `json:"room_id"`

	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM, 24-hour

	Recurrence      string `json:"recurrence,omitempty"`
	RecurrenceCount int    `json:"recurrence_count,omitempty"`
}

// Validate checks every field and returns the parsed base instant. Problems
// accumulate rather than short-circuiting; a request in the past is reported
// under the combined "appointment_time" key.
func (r *CreateRequest) Validate(now time.Time) (time.Time, ValidationErrors) {
	errs := ValidationErrors{}

	if r.CustomerID == uuid.Nil {
		errs["customer_id"] = "customer is required"
	}
	if r.ServiceID == uuid.Nil {
		errs["service_id"] = "service is required"
	}
	if r.ProfessionalID == uuid.Nil {
		errs["professional_id"] = "professional is required"
	}
	if r.RoomID == uuid.Nil {
		errs["room_id"] = "room is required"
	}

	var day, clock time.Time
	var dayErr, clockErr error
	if r.Date == "" {
		errs["date"] = "date is required"
	} else if day, dayErr = time.Parse(dateLayout, r.Date); dayErr != nil {
		errs["date"] = "date must be YYYY-MM-DD"
	}
	if r.Time == "" {
		errs["time"] = "time is required"
	} else if clock, clockErr = time.Parse(timeLayout, r.Time); clockErr != nil {
		errs["time"] = "time must be HH:MM"
	}

	if r.Recurrence != "" && r.Recurrence != CadenceNone {
		if !ValidCadence(r.Recurrence) {
			errs["recurrence"] = "unknown recurrence cadence"
		}
		if r.RecurrenceCount < 1 {
			errs["recurrence_count"] = "recurrence count must be at least 1"
		}
	}

	var at time.Time
	if errs["date"] == "" && errs["time"] == "" {
		at = time.Date(day.Year(), day.Month(), day.Day(),
			clock.Hour(), clock.Minute(), 0, 0, now.Location())
		if at.Before(now) {
			errs["appointment_time"] = "cannot schedule an appointment in the past"
		}
	}

	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return at, nil
}
