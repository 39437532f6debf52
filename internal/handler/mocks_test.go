//go:build unit

package handler

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"net/url"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/service"
	"cms-dashboard/internal/session"

	"golang.org/x/oauth2"
)

// mockSessionManager is a mock implementation of the session.Manager interface.
type mockSessionManager struct {
	values        map[string]interface{}
	destroyCalled bool
	renewCalled   bool
}

// Ensure mockSessionManager implements the session.Manager interface.
var _ session.Manager = (*mockSessionManager)(nil)

func newMockSession() *mockSessionManager {
	return &mockSessionManager{values: make(map[string]interface{})}
}

func (m *mockSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }
func (m *mockSessionManager) Put(ctx context.Context, key string, val interface{}) {
	m.values[key] = val
}
func (m *mockSessionManager) GetString(ctx context.Context, key string) string {
	s, _ := m.values[key].(string)
	return s
}
func (m *mockSessionManager) PopString(ctx context.Context, key string) string {
	s := m.GetString(ctx, key)
	delete(m.values, key)
	return s
}
func (m *mockSessionManager) Remove(ctx context.Context, key string) { delete(m.values, key) }
func (m *mockSessionManager) RenewToken(ctx context.Context) error {
	m.renewCalled = true
	return nil
}
func (m *mockSessionManager) Destroy(ctx context.Context) error {
	m.destroyCalled = true
	m.values = make(map[string]interface{})
	return nil
}

// mockRenderer records the last rendered page.
type mockRenderer struct {
	name string
	data map[string]interface{}
}

var _ middleware.Renderer = (*mockRenderer)(nil)

func (m *mockRenderer) Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error {
	m.name = name
	m.data = data
	_, err := io.WriteString(w, name)
	return err
}

// mockGalleryService is a scripted GalleryService.
type mockGalleryService struct {
	items     map[string]*data.GalleryItem
	postErr   error
	editErr   error
	deleteErr error

	postedForm service.GalleryForm
	postedImg  *service.Upload
}

var _ GalleryService = (*mockGalleryService)(nil)

func (m *mockGalleryService) List(ctx context.Context) ([]*data.GalleryItem, error) {
	out := make([]*data.GalleryItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func (m *mockGalleryService) Get(ctx context.Context, id string) (*data.GalleryItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return it, nil
}

func (m *mockGalleryService) Post(ctx context.Context, form service.GalleryForm, img *service.Upload) (*data.GalleryItem, error) {
	m.postedForm, m.postedImg = form, img
	if m.postErr != nil {
		return nil, m.postErr
	}
	return &data.GalleryItem{ID: "new", Title: form.Title}, nil
}

func (m *mockGalleryService) Edit(ctx context.Context, id string, form service.GalleryForm, img *service.Upload) (*data.GalleryItem, error) {
	m.postedForm, m.postedImg = form, img
	if _, ok := m.items[id]; !ok {
		return nil, service.ErrNotFound
	}
	if m.editErr != nil {
		return nil, m.editErr
	}
	return &data.GalleryItem{ID: id, Title: form.Title}, nil
}

func (m *mockGalleryService) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return service.ErrNotFound
	}
	return m.deleteErr
}

// mockAboutService is a scripted AboutService.
type mockAboutService struct {
	page    *service.AboutPage
	getErr  error
	saveErr error

	savedProfile string
	savedIcon    *service.Upload
}

var _ AboutService = (*mockAboutService)(nil)

func (m *mockAboutService) Get(ctx context.Context) (*service.AboutPage, error) {
	return m.page, m.getErr
}

func (m *mockAboutService) Save(ctx context.Context, profile, works string, icon *service.Upload) (*data.About, error) {
	m.savedProfile, m.savedIcon = profile, icon
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return &data.About{ID: data.DocumentID, Profile: profile, Works: works}, nil
}

// mockContactService is a scripted ContactService.
type mockContactService struct {
	page    *service.ContactPage
	getErr  error
	saveErr error
	saved   string
}

var _ ContactService = (*mockContactService)(nil)

func (m *mockContactService) Get(ctx context.Context) (*service.ContactPage, error) {
	return m.page, m.getErr
}

func (m *mockContactService) Save(ctx context.Context, content string) (*data.Contact, error) {
	m.saved = content
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return &data.Contact{ID: data.DocumentID, Content: content}, nil
}

// mockAuthService accepts a single email and password.
type mockAuthService struct {
	email, password string
}

var _ AuthService = (*mockAuthService)(nil)

func (m *mockAuthService) SignIn(ctx context.Context, form service.SignInForm) (*data.User, error) {
	if form.Email == "" {
		return nil, &service.ValidationError{Fields: map[string]string{"email": "Please enter an email address"}}
	}
	if form.Email != m.email || form.Password != m.password {
		return nil, service.ErrInvalidCredentials
	}
	return &data.User{ID: 1, Email: form.Email}, nil
}

// mockAuthenticator stands in for the OIDC provider.
type mockAuthenticator struct {
	subject string
	err     error
}

var _ Authenticator = (*mockAuthenticator)(nil)

func (m *mockAuthenticator) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	return "https://idp.example.com/auth?state=" + url.QueryEscape(state)
}

func (m *mockAuthenticator) Subject(ctx context.Context, code string) (string, error) {
	return m.subject, m.err
}

// stubEditorService renders previews as the payload itself.
type stubEditorService struct {
	resp *service.EditorResponse
	err  error
}

var _ EditorService = (*stubEditorService)(nil)

func (s *stubEditorService) Apply(req service.EditorRequest) (*service.EditorResponse, error) {
	return s.resp, s.err
}

func (s *stubEditorService) Preview(payload string) (template.HTML, error) {
	if s.err != nil {
		return "", s.err
	}
	return template.HTML(payload), nil
}
