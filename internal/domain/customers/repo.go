package customers

import (
	"context"

	"github.com/google/uuid"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// GetByCPF expects a normalized, digits-only cpf.
	GetByCPF(ctx context.Context, cpf string) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Customer, int, error)
	// Search matches name, surname, nickname, email, phone and cpf.
	Search(ctx context.Context, query string, limit, offset int) ([]*Customer, int, error)
	SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error
}
