package handler

import (
	"errors"
	"html/template"
	"net/http"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/richtext"
	"cms-dashboard/internal/service"
	"cms-dashboard/internal/session"
)

// DocumentHandler serves the about and contact editors.
type DocumentHandler struct {
	about   AboutService
	contact ContactService
	editor  EditorService
	session session.Manager
	view    middleware.Renderer
	log     logger.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(about AboutService, contact ContactService, editor EditorService, sm session.Manager, view middleware.Renderer, log logger.Logger) *DocumentHandler {
	return &DocumentHandler{about: about, contact: contact, editor: editor, session: sm, view: view, log: log}
}

func (h *DocumentHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) *middleware.AppError {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.view.Render(w, r, name, data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

// loadError maps a failure to load a document. A stored document that no
// longer decodes is reported as missing.
func loadError(err error, what string) *middleware.AppError {
	if errors.Is(err, service.ErrInvalidDocument) {
		return &middleware.AppError{Error: err, Message: "Not Found", Code: http.StatusNotFound}
	}
	return &middleware.AppError{Error: err, Message: "Failed to load " + what, Code: http.StatusInternalServerError}
}

// preview renders a submitted payload for a re-rendered form. Payloads that
// do not decode render as nothing.
func (h *DocumentHandler) preview(payload string) template.HTML {
	html, err := h.editor.Preview(payload)
	if err != nil {
		return ""
	}
	return html
}

// showAbout renders the about editor. A document that was never saved
// starts out empty.
func (h *DocumentHandler) showAbout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.about.Get(r.Context())
	if errors.Is(err, service.ErrNotFound) {
		page = &service.AboutPage{About: &data.About{ID: data.DocumentID}, Profile: richtext.Empty(), Works: richtext.Empty()}
		err = nil
	}
	if err != nil {
		return loadError(err, "about")
	}
	return h.render(w, r, http.StatusOK, "about.html", map[string]interface{}{
		"Title":       "About",
		"About":       page.About,
		"IconURL":     page.IconURL,
		"Profile":     page.Profile.String(),
		"ProfileHTML": richtext.RenderHTML(page.Profile),
		"Works":       page.Works.String(),
		"WorksHTML":   richtext.RenderHTML(page.Works),
	})
}

// saveAbout stores the about document and, when one is submitted, a new icon.
func (h *DocumentHandler) saveAbout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := parseForm(r); err != nil {
		return &middleware.AppError{Error: err, Message: "Bad request", Code: http.StatusBadRequest}
	}
	profile, works := r.PostForm.Get("profile"), r.PostForm.Get("works")
	icon, closeIcon, err := formUpload(r, "icon")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Bad request", Code: http.StatusBadRequest}
	}
	defer closeIcon()

	if _, err := h.about.Save(r.Context(), profile, works, icon); err != nil {
		h.log.Error(err, "failed to save about")
		current, getErr := h.about.Get(r.Context())
		if getErr != nil {
			current = &service.AboutPage{About: &data.About{ID: data.DocumentID}}
		}
		return h.render(w, r, statusFor(err), "about.html", map[string]interface{}{
			"Title":       "About",
			"About":       current.About,
			"IconURL":     current.IconURL,
			"Profile":     profile,
			"ProfileHTML": h.preview(profile),
			"Works":       works,
			"WorksHTML":   h.preview(works),
			"Flash":       errorToast(err, service.MsgSaveFailed),
		})
	}

	middleware.SetFlash(r.Context(), h.session, service.MsgSaved, false)
	http.Redirect(w, r, "/about", http.StatusSeeOther)
	return nil
}

// showContact renders the contact editor.
func (h *DocumentHandler) showContact(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.contact.Get(r.Context())
	if errors.Is(err, service.ErrNotFound) {
		page = &service.ContactPage{Contact: &data.Contact{ID: data.DocumentID}, Content: richtext.Empty()}
		err = nil
	}
	if err != nil {
		return loadError(err, "contact")
	}
	return h.render(w, r, http.StatusOK, "contact.html", map[string]interface{}{
		"Title":       "Contact",
		"Contact":     page.Contact,
		"Content":     page.Content.String(),
		"ContentHTML": richtext.RenderHTML(page.Content),
	})
}

// saveContact stores the contact document.
func (h *DocumentHandler) saveContact(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := parseForm(r); err != nil {
		return &middleware.AppError{Error: err, Message: "Bad request", Code: http.StatusBadRequest}
	}
	content := r.PostForm.Get("content")

	if _, err := h.contact.Save(r.Context(), content); err != nil {
		h.log.Error(err, "failed to save contact")
		contact := &data.Contact{ID: data.DocumentID}
		if current, getErr := h.contact.Get(r.Context()); getErr == nil {
			contact = current.Contact
		}
		return h.render(w, r, statusFor(err), "contact.html", map[string]interface{}{
			"Title":       "Contact",
			"Contact":     contact,
			"Content":     content,
			"ContentHTML": h.preview(content),
			"Flash":       errorToast(err, service.MsgSaveFailed),
		})
	}

	middleware.SetFlash(r.Context(), h.session, service.MsgSaved, false)
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
	return nil
}
