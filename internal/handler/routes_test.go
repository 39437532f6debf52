//go:build unit

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cms-dashboard/internal/auth"
	"cms-dashboard/internal/data"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/service"
	"cms-dashboard/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, sm *mockSessionManager, ready func(context.Context) error) http.Handler {
	t.Helper()
	e, err := auth.NewMemoryEnforcer()
	require.NoError(t, err)
	auth.SeedDefaultPolicies(e, logger.Nop())
	require.NoError(t, auth.GrantEditor(e, "editor@example.com"))

	log := logger.Nop()
	view := &mockRenderer{}
	gallery := &mockGalleryService{items: map[string]*data.GalleryItem{"a": {ID: "a", Title: "Cat"}}}
	authHandler := NewAuthHandler(&mockAuthService{}, nil, sm, view, log)
	errorPages := middleware.Error(log, view)
	return NewRouter(Routes{
		Auth:      authHandler,
		Gallery:   NewGalleryHandler(gallery, sm, view, log),
		Documents: NewDocumentHandler(&mockAboutService{getErr: service.ErrNotFound}, &mockContactService{getErr: service.ErrNotFound}, &stubEditorService{}, sm, view, log),
		Editor:    NewEditorHandler(service.NewEditorService(), log),
		Session:   sm,
		Authz:     middleware.Authorizer(e, sm, log, errorPages(authHandler.PermissionDenied)),
		Errors:    errorPages,
		Ready:     ready,
	})
}

func TestRouter(t *testing.T) {
	t.Run("anonymous pages redirect to sign-in", func(t *testing.T) {
		router := newTestRouter(t, newMockSession(), nil)
		for _, path := range []string{"/", "/gallery", "/gallery/a", "/about", "/contact"} {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusFound, rr.Code, path)
			assert.Equal(t, "/sign-in", rr.Header().Get("Location"), path)
		}
	})

	t.Run("anonymous writes are forbidden", func(t *testing.T) {
		router := newTestRouter(t, newMockSession(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/editor", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("editors reach the dashboard", func(t *testing.T) {
		sm := newMockSession()
		sm.values[session.SubjectKey] = "editor@example.com"
		router := newTestRouter(t, sm, nil)

		for _, path := range []string{"/gallery", "/gallery/a", "/gallery/post", "/about", "/contact"} {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rr.Code, path)
		}

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/gallery/zz", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("flash is shown once", func(t *testing.T) {
		sm := newMockSession()
		sm.values[session.SubjectKey] = "editor@example.com"
		sm.values[session.FlashKey] = service.MsgSaved
		router := newTestRouter(t, sm, nil)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/gallery", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, sm.values, session.FlashKey)
	})

	t.Run("signed-in users without the editor role", func(t *testing.T) {
		sm := newMockSession()
		sm.values[session.SubjectKey] = "stranger@example.com"
		router := newTestRouter(t, sm, nil)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/gallery", nil))
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "error.html", rr.Body.String())

		req := httptest.NewRequest(http.MethodPost, "/gallery/a/delete", nil)
		req.Header.Set("Referer", "http://example.com/gallery/a")
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/gallery/a", rr.Header().Get("Location"))
		assert.Equal(t, service.MsgPermissionDenied, sm.values[session.ErrorKey])

		req = httptest.NewRequest(http.MethodPost, "/gallery/a/delete", nil)
		req.Header.Set("Referer", "https://elsewhere.example/")
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("robots.txt is public", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTestRouter(t, newMockSession(), nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "User-agent: *\nDisallow: /\n", rr.Body.String())
	})

	t.Run("healthz", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTestRouter(t, newMockSession(), nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		down := func(context.Context) error { return errors.New("db down") }
		newTestRouter(t, newMockSession(), down).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
