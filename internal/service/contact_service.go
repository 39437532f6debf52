package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/richtext"
)

// ContactRepository defines the database operations on the contact document.
type ContactRepository interface {
	Get(ctx context.Context, id string) (*data.Contact, error)
	Put(ctx context.Context, contact *data.Contact) error
}

// ContactPage is the contact document prepared for editing.
type ContactPage struct {
	Contact *data.Contact
	Content *richtext.Document
}

// ContactService provides business logic for the contact page.
type ContactService struct {
	repo ContactRepository
	now  func() time.Time
}

// NewContactService creates a new ContactService.
func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo, now: time.Now}
}

// Get loads the contact document and decodes its content.
func (s *ContactService) Get(ctx context.Context) (*ContactPage, error) {
	contact, err := s.repo.Get(ctx, data.DocumentID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	content, err := richtext.Parse(contact.Content)
	if err != nil {
		return nil, fmt.Errorf("contact content: %w", err)
	}
	return &ContactPage{Contact: contact, Content: content}, nil
}

// Save validates and stores the content payload.
func (s *ContactService) Save(ctx context.Context, content string) (*data.Contact, error) {
	doc, err := richtext.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("contact content: %w", err)
	}

	current, err := s.repo.Get(ctx, data.DocumentID)
	if err != nil {
		if !errors.Is(err, data.ErrNotFound) {
			return nil, err
		}
		current = &data.Contact{ID: data.DocumentID}
	}

	now := s.now().UnixMilli()
	updated := *current
	updated.Content = doc.String()
	updated.UpdatedAt = &now
	if updated.CreatedAt == nil {
		updated.CreatedAt = &now
	}
	if err := s.repo.Put(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return &updated, nil
}
