package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a payment listing. Zero values mean "no filter".
type ListFilter struct {
	CustomerID uuid.UUID
	From       time.Time
	To         time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Payment, int, error)
	Summarize(ctx context.Context, from, to time.Time) (*Summary, error)
}
