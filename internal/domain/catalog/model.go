package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("catalog entry not found")
	ErrDuplicateName = errors.New("display name already in use")
	// ErrInUse means appointments still reference the entry.
	ErrInUse = errors.New("catalog entry is referenced by appointments")
)

// Entry is a named scheduling resource: a professional, a service offered,
// or a room. All three share the same shape and rules.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
