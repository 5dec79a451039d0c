package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
)

type Service struct {
	accounts AccountRepository
	tokens   *TokenIssuer
}

func NewService(accounts AccountRepository, tokens *TokenIssuer) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   *Account  `json:"account"`
}

// SignUp registers a new staff account and returns a signed-in session.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address")
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) && !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &Account{Name: name, Email: email, PasswordHash: hash}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return s.startSession(account)
}

// SignIn authenticates an account by email and password.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(account)
}

// CurrentAccount resolves the account for an authenticated request.
func (s *Service) CurrentAccount(ctx context.Context) (*Account, error) {
	idStr := AccountIDFromContext(ctx)
	if idStr == "" {
		return nil, ErrAccountNotFound
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *Service) startSession(account *Account) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}
