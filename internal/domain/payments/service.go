package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	repo PaymentRepository
	now  func() time.Time
}

func NewService(repo PaymentRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create records a payment. PaidAt defaults to the current time so the desk
// can backdate a payment but rarely needs to.
func (s *Service) Create(ctx context.Context, p *Payment) error {
	if p.CustomerID == uuid.Nil {
		return fmt.Errorf("customer_id is required")
	}
	if p.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	p.Method = strings.TrimSpace(p.Method)
	if p.Method == "" {
		p.Method = MethodCash
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = s.now()
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Payment, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Summarize totals payments in the closed period [from, to]. An open bound
// defaults to the dawn of time or the present.
func (s *Service) Summarize(ctx context.Context, from, to time.Time) (*Summary, error) {
	if to.IsZero() {
		to = s.now()
	}
	if !from.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("period end precedes its start")
	}
	return s.repo.Summarize(ctx, from, to)
}
