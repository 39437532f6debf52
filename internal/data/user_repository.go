package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for dashboard users.
type UserRepository struct {
	DB *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a user and returns its ID. Emails are stored lower-cased.
func (r *UserRepository) Create(ctx context.Context, user *User) (int64, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	res, err := r.DB.NamedExecContext(ctx,
		"INSERT INTO users (email, password_hash, created_at) VALUES (:email, :password_hash, :created_at)", user)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = id
	return id, nil
}

// GetByEmail finds a user by email address, ignoring case.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.DB.GetContext(ctx, &user,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdatePassword replaces the password hash of the user with email.
func (r *UserRepository) UpdatePassword(ctx context.Context, email, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE email = ?",
		hash, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return nil
}
