//go:build unit

package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sort"
	"testing"

	"cms-dashboard/internal/data"
)

// mockGalleryRepository is an in-memory GalleryRepository.
type mockGalleryRepository struct {
	items     map[string]*data.GalleryItem
	createErr error
	updateErr error
	deleteErr error
	listErr   error

	updateCalled bool
}

var _ GalleryRepository = (*mockGalleryRepository)(nil)

func newMockGalleryRepository(items ...*data.GalleryItem) *mockGalleryRepository {
	m := &mockGalleryRepository{items: make(map[string]*data.GalleryItem)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *mockGalleryRepository) List(ctx context.Context) ([]*data.GalleryItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*data.GalleryItem, 0, len(m.items))
	for _, it := range m.items {
		c := *it
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockGalleryRepository) Get(ctx context.Context, id string) (*data.GalleryItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	c := *it
	return &c, nil
}

func (m *mockGalleryRepository) Create(ctx context.Context, item *data.GalleryItem) error {
	if m.createErr != nil {
		return m.createErr
	}
	c := *item
	m.items[item.ID] = &c
	return nil
}

func (m *mockGalleryRepository) Update(ctx context.Context, item *data.GalleryItem) error {
	m.updateCalled = true
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.items[item.ID]; !ok {
		return data.ErrNotFound
	}
	c := *item
	m.items[item.ID] = &c
	return nil
}

func (m *mockGalleryRepository) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.items[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// mockAboutRepository holds at most one about document.
type mockAboutRepository struct {
	about  *data.About
	putErr error
}

var _ AboutRepository = (*mockAboutRepository)(nil)

func (m *mockAboutRepository) Get(ctx context.Context, id string) (*data.About, error) {
	if m.about == nil || id != data.DocumentID {
		return nil, data.ErrNotFound
	}
	c := *m.about
	return &c, nil
}

func (m *mockAboutRepository) Put(ctx context.Context, about *data.About) error {
	if m.putErr != nil {
		return m.putErr
	}
	c := *about
	m.about = &c
	return nil
}

// mockContactRepository holds at most one contact document.
type mockContactRepository struct {
	contact *data.Contact
	putErr  error
}

var _ ContactRepository = (*mockContactRepository)(nil)

func (m *mockContactRepository) Get(ctx context.Context, id string) (*data.Contact, error) {
	if m.contact == nil {
		return nil, data.ErrNotFound
	}
	c := *m.contact
	return &c, nil
}

func (m *mockContactRepository) Put(ctx context.Context, contact *data.Contact) error {
	if m.putErr != nil {
		return m.putErr
	}
	c := *contact
	m.contact = &c
	return nil
}

// mockUserRepository keys users by email.
type mockUserRepository struct {
	users  map[string]*data.User
	nextID int64
}

var _ UserRepository = (*mockUserRepository)(nil)

func (m *mockUserRepository) Create(ctx context.Context, user *data.User) (int64, error) {
	if m.users == nil {
		m.users = make(map[string]*data.User)
	}
	m.nextID++
	c := *user
	c.ID = m.nextID
	m.users[user.Email] = &c
	return m.nextID, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*data.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, data.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, email, hash string) error {
	u, ok := m.users[email]
	if !ok {
		return data.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

// pngUpload returns an upload holding a w x h PNG.
func pngUpload(t *testing.T, name string, w, h int) *Upload {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return &Upload{
		Filename: name,
		Size:     int64(buf.Len()),
		Body:     bytes.NewReader(buf.Bytes()),
	}
}

func ptr(v int64) *int64 { return &v }
