package payments

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("payment not found")

// Common payment methods. Method is free text: the desk types whatever the
// customer paid with, and these are just the usual values.
const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"
	MethodOther    = "other"
)

// Payment records money received from a customer. Professional and service
// are optional: a payment may settle a product sale or an old balance that
// maps to no appointment.
type Payment struct {
	ID             uuid.UUID  `json:"id"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	ProfessionalID *uuid.UUID `json:"professional_id,omitempty"`
	ServiceID      *uuid.UUID `json:"service_id,omitempty"`

	Amount float64   `json:"amount"`
	Method string    `json:"method"`
	PaidAt time.Time `json:"paid_at"`
	Notes  string    `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary aggregates payments over a period.
type Summary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}
