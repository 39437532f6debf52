package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const galleryColumns = `id, url, object_path, width, height, filename, title, description, in_slide_view, created_at, updated_at`

// SQLGalleryRepository is a concrete implementation of the GalleryRepository interface using sqlx.
type SQLGalleryRepository struct {
	db *sqlx.DB
}

// NewSQLGalleryRepository creates a new SQLGalleryRepository.
func NewSQLGalleryRepository(db *sqlx.DB) *SQLGalleryRepository {
	return &SQLGalleryRepository{db: db}
}

// List retrieves every gallery item, most recently updated first.
func (r *SQLGalleryRepository) List(ctx context.Context) ([]*GalleryItem, error) {
	var items []*GalleryItem
	query := `SELECT ` + galleryColumns + ` FROM gallery ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list gallery items: %w", err)
	}
	return items, nil
}

// Get retrieves a single gallery item by its ID.
func (r *SQLGalleryRepository) Get(ctx context.Context, id string) (*GalleryItem, error) {
	var item GalleryItem
	query := `SELECT ` + galleryColumns + ` FROM gallery WHERE id = ?`
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("gallery item %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get gallery item: %w", err)
	}
	return &item, nil
}

// Create inserts a new gallery item. The caller assigns the ID.
func (r *SQLGalleryRepository) Create(ctx context.Context, item *GalleryItem) error {
	query := `INSERT INTO gallery (` + galleryColumns + `)
		VALUES (:id, :url, :object_path, :width, :height, :filename, :title, :description, :in_slide_view, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("failed to create gallery item: %w", err)
	}
	return nil
}

// Update replaces every field of an existing gallery item.
func (r *SQLGalleryRepository) Update(ctx context.Context, item *GalleryItem) error {
	query := `UPDATE gallery SET url = :url, object_path = :object_path, width = :width, height = :height,
		filename = :filename, title = :title, description = :description, in_slide_view = :in_slide_view,
		created_at = :created_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("failed to update gallery item: %w", err)
	}
	// MySQL reports zero affected rows when nothing changed, so existence is
	// checked separately.
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM gallery WHERE id = ?`, item.ID); err != nil {
		return fmt.Errorf("failed to check gallery item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("gallery item %q: %w", item.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a gallery item by its ID.
func (r *SQLGalleryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gallery WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gallery item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("gallery item %q: %w", id, ErrNotFound)
	}
	return nil
}
