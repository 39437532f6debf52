package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/richtext"
	"cms-dashboard/internal/storage"
)

// AboutRepository defines the database operations on the about document.
type AboutRepository interface {
	Get(ctx context.Context, id string) (*data.About, error)
	Put(ctx context.Context, about *data.About) error
}

// AboutPage is the about document prepared for editing.
type AboutPage struct {
	About   *data.About
	Profile *richtext.Document
	Works   *richtext.Document
	IconURL string
}

// AboutService provides business logic for the about page.
type AboutService struct {
	repo   AboutRepository
	images *imageStore
	log    logger.Logger
	now    func() time.Time
}

// NewAboutService creates a new AboutService.
func NewAboutService(repo AboutRepository, store storage.ObjectStore, log logger.Logger) *AboutService {
	return &AboutService{
		repo:   repo,
		images: &imageStore{store: store, log: log},
		log:    log,
		now:    time.Now,
	}
}

// isAbsoluteURL reports whether an icon reference is a stored download URL
// rather than an object path.
func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Get loads the about document, decodes its rich-text fields and resolves
// the icon to a download URL.
func (s *AboutService) Get(ctx context.Context) (*AboutPage, error) {
	about, err := s.repo.Get(ctx, data.DocumentID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile, err := richtext.Parse(about.Profile)
	if err != nil {
		return nil, fmt.Errorf("about profile: %w", err)
	}
	works, err := richtext.Parse(about.Works)
	if err != nil {
		return nil, fmt.Errorf("about works: %w", err)
	}

	page := &AboutPage{About: about, Profile: profile, Works: works}
	switch {
	case about.IconObjectPath == "":
	case isAbsoluteURL(about.IconObjectPath):
		page.IconURL = about.IconObjectPath
	default:
		url, err := s.images.store.URL(ctx, about.IconObjectPath)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("failed to resolve icon url: %w", err)
			}
			s.log.Warn(fmt.Sprintf("about icon %s is missing", about.IconObjectPath))
		}
		page.IconURL = url
	}
	return page, nil
}

// Save validates and stores the profile and works payloads. When icon is
// given it replaces the current icon: the new object is uploaded first and
// the old one removed only once the document points at the new one.
func (s *AboutService) Save(ctx context.Context, profile, works string, icon *Upload) (*data.About, error) {
	profileDoc, err := richtext.Parse(profile)
	if err != nil {
		return nil, fmt.Errorf("about profile: %w", err)
	}
	worksDoc, err := richtext.Parse(works)
	if err != nil {
		return nil, fmt.Errorf("about works: %w", err)
	}

	current, err := s.repo.Get(ctx, data.DocumentID)
	if err != nil {
		if !errors.Is(err, data.ErrNotFound) {
			return nil, err
		}
		current = &data.About{ID: data.DocumentID}
	}

	now := s.now().UnixMilli()
	updated := *current
	updated.Profile = profileDoc.String()
	updated.Works = worksDoc.String()
	updated.UpdatedAt = &now
	if updated.CreatedAt == nil {
		updated.CreatedAt = &now
	}

	var stored *storedImage
	if icon != nil {
		stored, err = s.images.put(ctx, storage.ProfilePrefix, icon)
		if err != nil {
			return nil, err
		}
		updated.IconObjectPath = stored.objectPath
	}

	if err := s.repo.Put(ctx, &updated); err != nil {
		if stored != nil {
			s.images.discard(ctx, stored.objectPath)
		}
		return nil, fmt.Errorf("failed to save about: %w", err)
	}

	if stored != nil && current.IconObjectPath != "" && !isAbsoluteURL(current.IconObjectPath) {
		s.images.discard(ctx, current.IconObjectPath)
	}
	return &updated, nil
}
