package customers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/syncro/syncro/internal/platform/photostore"
)

var ErrNotFound = errors.New("customer not found")

type Service struct {
	repo   CustomerRepository
	photos photostore.PhotoStore
}

func NewService(repo CustomerRepository, photos photostore.PhotoStore) *Service {
	return &Service{repo: repo, photos: photos}
}

func (s *Service) Create(ctx context.Context, c *Customer) error {
	if err := validate(c); err != nil {
		return err
	}
	if err := s.checkCPFFree(ctx, c.CPF, uuid.Nil); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// GetByCPF accepts the cpf with or without punctuation.
func (s *Service) GetByCPF(ctx context.Context, cpf string) (*Customer, error) {
	c, err := s.repo.GetByCPF(ctx, NormalizeCPF(cpf))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *Service) Update(ctx context.Context, c *Customer) error {
	if err := validate(c); err != nil {
		return err
	}
	if _, err := s.Get(ctx, c.ID); err != nil {
		return err
	}
	if err := s.checkCPFFree(ctx, c.CPF, c.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// checkCPFFree rejects a cpf already registered to another customer. The
// unique index backs this up; checking here gives the desk a readable error.
func (s *Service) checkCPFFree(ctx context.Context, cpf string, selfID uuid.UUID) error {
	existing, err := s.repo.GetByCPF(ctx, cpf)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("cpf already registered")
	}
	return nil
}

// List returns customers, filtered by a free-text search query when given.
func (s *Service) List(ctx context.Context, query string, limit, offset int) ([]*Customer, int, error) {
	query = strings.TrimSpace(query)
	if query != "" {
		return s.repo.Search(ctx, query, limit, offset)
	}
	return s.repo.List(ctx, limit, offset)
}

// AttachPhoto stores the uploaded image and records its public URL on the
// customer.
func (s *Service) AttachPhoto(ctx context.Context, id uuid.UUID, contentType string, content io.Reader) (*Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	photo, err := s.photos.Save(ctx, id.String(), contentType, content)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetPhotoURL(ctx, id, photo.URL); err != nil {
		return nil, err
	}
	c.PhotoURL = photo.URL
	c.UpdatedAt = time.Now()
	return c, nil
}

func validate(c *Customer) error {
	c.CPF = NormalizeCPF(c.CPF)
	if c.CPF == "" {
		return fmt.Errorf("cpf is required")
	}
	if len(c.CPF) != 11 {
		return fmt.Errorf("cpf must have 11 digits")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("customer_name is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("invalid email address")
		}
	}
	return nil
}
