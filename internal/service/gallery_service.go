package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/storage"

	"github.com/google/uuid"
)

// GalleryRepository defines the database operations on gallery items.
type GalleryRepository interface {
	List(ctx context.Context) ([]*data.GalleryItem, error)
	Get(ctx context.Context, id string) (*data.GalleryItem, error)
	Create(ctx context.Context, item *data.GalleryItem) error
	Update(ctx context.Context, item *data.GalleryItem) error
	Delete(ctx context.Context, id string) error
}

// GalleryService provides business logic for the image gallery.
type GalleryService struct {
	repo     GalleryRepository
	images   *imageStore
	validate *FormValidator
	log      logger.Logger
	now      func() time.Time
}

// NewGalleryService creates a new GalleryService.
func NewGalleryService(repo GalleryRepository, store storage.ObjectStore, log logger.Logger) *GalleryService {
	return &GalleryService{
		repo:     repo,
		images:   &imageStore{store: store, log: log},
		validate: NewFormValidator(),
		log:      log,
		now:      time.Now,
	}
}

// List returns every item, most recently updated first. A listing holding
// a malformed item is shown as empty.
func (s *GalleryService) List(ctx context.Context) ([]*data.GalleryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == "" || it.URL == "" {
			s.log.Warn(fmt.Sprintf("gallery item %q is malformed, hiding listing", it.ID))
			return []*data.GalleryItem{}, nil
		}
	}
	return items, nil
}

// Get returns a single item.
func (s *GalleryService) Get(ctx context.Context, id string) (*data.GalleryItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// Post uploads img and creates a new item for it.
func (s *GalleryService) Post(ctx context.Context, form GalleryForm, img *Upload) (*data.GalleryItem, error) {
	verr := &ValidationError{}
	if err := s.validate.Validate(form); err != nil {
		if !errors.As(err, &verr) {
			return nil, err
		}
	}
	if img == nil {
		verr.Add("image", MsgImageRequired)
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	stored, err := s.images.put(ctx, storage.GalleryPrefix, img)
	if err != nil {
		return nil, err
	}

	now := s.now().UnixMilli()
	item := &data.GalleryItem{
		ID:          uuid.NewString(),
		URL:         stored.url,
		ObjectPath:  stored.objectPath,
		Width:       stored.width,
		Height:      stored.height,
		Filename:    stored.filename,
		Title:       form.Title,
		Description: form.Description,
		InSlideView: form.InSlideView,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.images.discard(ctx, stored.objectPath)
		return nil, fmt.Errorf("failed to create gallery item: %w", err)
	}
	return item, nil
}

// legacyObjectPath returns where an item's image is stored. Items created
// before object paths were recorded keep their image under its filename.
func legacyObjectPath(item *data.GalleryItem) string {
	if item.ObjectPath != "" {
		return item.ObjectPath
	}
	if item.Filename == "" {
		return ""
	}
	return path.Join(storage.GalleryPrefix, item.Filename)
}

// Edit updates the item's fields and, when img is given, replaces its
// image. The new image is uploaded before the record is written and the
// old one deleted after, so a failure never leaves the record pointing at
// a missing object. UpdatedAt only moves when something changed.
func (s *GalleryService) Edit(ctx context.Context, id string, form GalleryForm, img *Upload) (*data.GalleryItem, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(form); err != nil {
		return nil, err
	}

	updated := *current
	updated.Title = form.Title
	updated.Description = form.Description
	updated.InSlideView = form.InSlideView

	dirty := updated.Title != current.Title ||
		updated.Description != current.Description ||
		updated.InSlideView != current.InSlideView

	now := s.now().UnixMilli()
	if updated.CreatedAt == nil {
		updated.CreatedAt = &now
	}

	var stored *storedImage
	if img != nil {
		stored, err = s.images.put(ctx, storage.GalleryPrefix, img)
		if err != nil {
			return nil, err
		}
		updated.URL = stored.url
		updated.ObjectPath = stored.objectPath
		updated.Filename = stored.filename
		updated.Width = stored.width
		updated.Height = stored.height
		dirty = true
	}
	if dirty {
		updated.UpdatedAt = &now
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if stored != nil {
			s.images.discard(ctx, stored.objectPath)
		}
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update gallery item: %w", err)
	}

	if stored != nil {
		if old := legacyObjectPath(current); old != stored.objectPath {
			s.images.discard(ctx, old)
		}
	}
	return &updated, nil
}

// Delete removes the item and then its image.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete gallery item: %w", err)
	}
	if p := legacyObjectPath(item); p != "" {
		if err := s.images.store.Delete(ctx, p); err != nil {
			return fmt.Errorf("failed to delete image: %w", err)
		}
	}
	return nil
}
