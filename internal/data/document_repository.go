package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLAboutRepository stores the About document.
type SQLAboutRepository struct {
	db *sqlx.DB
}

// NewSQLAboutRepository creates a new SQLAboutRepository.
func NewSQLAboutRepository(db *sqlx.DB) *SQLAboutRepository {
	return &SQLAboutRepository{db: db}
}

// Get retrieves the About document by id.
func (r *SQLAboutRepository) Get(ctx context.Context, id string) (*About, error) {
	var about About
	query := `SELECT id, icon_object_path, profile, works, created_at, updated_at FROM about WHERE id = ?`
	if err := r.db.GetContext(ctx, &about, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("about %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get about document: %w", err)
	}
	return &about, nil
}

// Put creates or fully replaces the About document.
func (r *SQLAboutRepository) Put(ctx context.Context, about *About) error {
	query := upsert(r.db.DriverName(), "about",
		[]string{"icon_object_path", "profile", "works", "created_at", "updated_at"})
	if _, err := r.db.NamedExecContext(ctx, query, about); err != nil {
		return fmt.Errorf("failed to put about document: %w", err)
	}
	return nil
}

// SQLContactRepository stores the Contact document.
type SQLContactRepository struct {
	db *sqlx.DB
}

// NewSQLContactRepository creates a new SQLContactRepository.
func NewSQLContactRepository(db *sqlx.DB) *SQLContactRepository {
	return &SQLContactRepository{db: db}
}

// Get retrieves the Contact document by id.
func (r *SQLContactRepository) Get(ctx context.Context, id string) (*Contact, error) {
	var contact Contact
	query := `SELECT id, content, created_at, updated_at FROM contact WHERE id = ?`
	if err := r.db.GetContext(ctx, &contact, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contact %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get contact document: %w", err)
	}
	return &contact, nil
}

// Put creates or fully replaces the Contact document.
func (r *SQLContactRepository) Put(ctx context.Context, contact *Contact) error {
	query := upsert(r.db.DriverName(), "contact", []string{"content", "created_at", "updated_at"})
	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("failed to put contact document: %w", err)
	}
	return nil
}
