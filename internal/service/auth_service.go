package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cms-dashboard/internal/auth"
	"cms-dashboard/internal/data"
)

// UserRepository defines the database operations on dashboard accounts.
type UserRepository interface {
	Create(ctx context.Context, user *data.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*data.User, error)
	UpdatePassword(ctx context.Context, email, hash string) error
}

// AuthService signs users in with email and password.
type AuthService struct {
	repo     UserRepository
	validate *FormValidator
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo, validate: NewFormValidator(), now: time.Now}
}

// SignIn checks the credentials and returns the account. Unknown emails
// and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, form SignInForm) (*data.User, error) {
	if err := s.validate.Validate(form); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(form.Email))
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := auth.CheckPassword(user.PasswordHash, form.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Register creates an account.
func (s *AuthService) Register(ctx context.Context, email, password string) (*data.User, error) {
	if err := s.validate.Validate(SignInForm{Email: email, Password: password}); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &data.User{
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		CreatedAt:    s.now().UnixMilli(),
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return user, nil
}

// SetPassword replaces the password of an existing account.
func (s *AuthService) SetPassword(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, strings.ToLower(email), hash); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
