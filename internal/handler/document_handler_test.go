//go:build unit

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/richtext"
	"cms-dashboard/internal/service"
	"cms-dashboard/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloPayload = `[{"type":"paragraph","children":[{"text":"hello"}]}]`

func newTestDocumentHandler(about *mockAboutService, contact *mockContactService) (*DocumentHandler, *mockSessionManager, *mockRenderer) {
	sm := newMockSession()
	view := &mockRenderer{}
	return NewDocumentHandler(about, contact, &stubEditorService{}, sm, view, logger.Nop()), sm, view
}

func TestDocumentHandler_ShowAbout(t *testing.T) {
	t.Run("renders the stored document", func(t *testing.T) {
		doc, err := richtext.Parse(helloPayload)
		require.NoError(t, err)
		about := &mockAboutService{page: &service.AboutPage{
			About: &data.About{ID: data.DocumentID}, Profile: doc, Works: richtext.Empty(), IconURL: "/media/icon.png",
		}}
		h, _, view := newTestDocumentHandler(about, &mockContactService{})
		rr := httptest.NewRecorder()

		require.Nil(t, h.showAbout(rr, httptest.NewRequest(http.MethodGet, "/about", nil)))

		assert.Equal(t, "about.html", view.name)
		assert.Equal(t, "/media/icon.png", view.data["IconURL"])
		assert.JSONEq(t, helloPayload, view.data["Profile"].(string))
		assert.Contains(t, fmt.Sprint(view.data["ProfileHTML"]), "hello")
	})

	t.Run("a never saved document starts empty", func(t *testing.T) {
		h, _, view := newTestDocumentHandler(&mockAboutService{getErr: service.ErrNotFound}, &mockContactService{})
		rr := httptest.NewRecorder()

		require.Nil(t, h.showAbout(rr, httptest.NewRequest(http.MethodGet, "/about", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, richtext.Empty().String(), view.data["Works"])
	})

	t.Run("a malformed document is not found", func(t *testing.T) {
		h, _, _ := newTestDocumentHandler(&mockAboutService{getErr: fmt.Errorf("about profile: %w", service.ErrInvalidDocument)}, &mockContactService{})
		appErr := h.showAbout(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/about", nil))
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})
}

func TestDocumentHandler_SaveAbout(t *testing.T) {
	t.Run("saves with an icon", func(t *testing.T) {
		about := &mockAboutService{}
		h, sm, _ := newTestDocumentHandler(about, &mockContactService{})
		req := multipartRequest("/about", map[string]string{"profile": helloPayload, "works": ""}, "icon", "me.png", []byte("png"))
		rr := httptest.NewRecorder()

		require.Nil(t, h.saveAbout(rr, req))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, helloPayload, about.savedProfile)
		require.NotNil(t, about.savedIcon)
		assert.Equal(t, "me.png", about.savedIcon.Filename)
		assert.Equal(t, service.MsgSaved, sm.values[session.FlashKey])
	})

	t.Run("failure keeps the submitted payloads", func(t *testing.T) {
		about := &mockAboutService{saveErr: service.ErrInvalidDocument, getErr: service.ErrNotFound}
		h, _, view := newTestDocumentHandler(about, &mockContactService{})
		req := multipartRequest("/about", map[string]string{"profile": "{broken", "works": helloPayload}, "", "", nil)
		rr := httptest.NewRecorder()

		require.Nil(t, h.saveAbout(rr, req))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "{broken", view.data["Profile"])
		flash := view.data["Flash"].(*middleware.Flash)
		assert.Equal(t, service.MsgSaveFailed, flash.Message)
		assert.True(t, flash.IsError)
	})
}

func TestDocumentHandler_Contact(t *testing.T) {
	t.Run("show", func(t *testing.T) {
		h, _, view := newTestDocumentHandler(&mockAboutService{}, &mockContactService{getErr: service.ErrNotFound})
		require.Nil(t, h.showContact(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/contact", nil)))
		assert.Equal(t, "contact.html", view.name)
	})

	t.Run("save", func(t *testing.T) {
		contact := &mockContactService{}
		h, sm, _ := newTestDocumentHandler(&mockAboutService{}, contact)
		rr := httptest.NewRecorder()

		require.Nil(t, h.saveContact(rr, formRequest("/contact", url.Values{"content": {helloPayload}})))

		assert.Equal(t, "/contact", rr.Header().Get("Location"))
		assert.Equal(t, helloPayload, contact.saved)
		assert.Equal(t, service.MsgSaved, sm.values[session.FlashKey])
	})

	t.Run("save failure", func(t *testing.T) {
		contact := &mockContactService{saveErr: errors.New("db down"), getErr: service.ErrNotFound}
		h, _, view := newTestDocumentHandler(&mockAboutService{}, contact)
		rr := httptest.NewRecorder()

		require.Nil(t, h.saveContact(rr, formRequest("/contact", url.Values{"content": {helloPayload}})))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, helloPayload, view.data["Content"])
	})
}
