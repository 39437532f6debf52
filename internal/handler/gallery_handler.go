package handler

import (
	"errors"
	"net/http"
	"strings"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/service"
	"cms-dashboard/internal/session"

	"github.com/go-chi/chi/v5"
)

// GalleryHandler holds the dependencies for the gallery pages.
type GalleryHandler struct {
	service GalleryService
	session session.Manager
	view    middleware.Renderer
	log     logger.Logger
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(s GalleryService, sm session.Manager, view middleware.Renderer, log logger.Logger) *GalleryHandler {
	return &GalleryHandler{service: s, session: sm, view: view, log: log}
}

func (h *GalleryHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) *middleware.AppError {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.view.Render(w, r, name, data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

// galleryForm reads the text fields of a gallery form.
func galleryForm(r *http.Request) service.GalleryForm {
	return service.GalleryForm{
		Title:       strings.TrimSpace(r.PostForm.Get("title")),
		Description: r.PostForm.Get("description"),
		InSlideView: r.PostForm.Get("inSlideView") == "on" || r.PostForm.Get("inSlideView") == "true",
	}
}

// list shows every gallery item, newest first.
func (h *GalleryHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	items, err := h.service.List(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load gallery", Code: http.StatusInternalServerError}
	}
	return h.render(w, r, http.StatusOK, "gallery_list.html", map[string]interface{}{
		"Title": "Gallery",
		"Items": items,
	})
}

// postForm shows the empty upload form.
func (h *GalleryHandler) postForm(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.render(w, r, http.StatusOK, "gallery_post.html", map[string]interface{}{
		"Title": "Post",
		"Form":  service.GalleryForm{},
	})
}

// post uploads a new gallery item.
func (h *GalleryHandler) post(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := parseForm(r); err != nil {
		return &middleware.AppError{Error: err, Message: "Bad request", Code: http.StatusBadRequest}
	}
	form := galleryForm(r)
	img, closeImg, err := formUpload(r, "image")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Bad request", Code: http.StatusBadRequest}
	}
	defer closeImg()

	item, err := h.service.Post(r.Context(), form, img)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.log.Error(err, "failed to post gallery item")
		}
		return h.render(w, r, statusFor(err), "gallery_post.html", map[string]interface{}{
			"Title":  "Post",
			"Form":   form,
			"Errors": fieldErrors(err),
			"Flash":  errorToast(err, service.MsgSaveFailed),
		})
	}

	h.log.With(map[string]interface{}{"id": item.ID}).Info("gallery item posted")
	middleware.SetFlash(r.Context(), h.session, service.MsgSaved, false)
	http.Redirect(w, r, "/gallery", http.StatusSeeOther)
	return nil
}

// show renders the edit form of one item.
func (h *GalleryHandler) show(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return h.loadError(err)
	}
	return h.render(w, r, http.StatusOK, "gallery_edit.html", map[string]interface{}{
		"Title": item.Title,
		"Item":  item,
		"Form":  formOf(item),
	})
}

// edit saves changes to one item. The image is only replaced when a new
// file is submitted.
func (h *GalleryHandler) edit(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := parseForm(r); err != nil {
		return &middleware.AppError{Error: err, Message: "Bad request", Code: http.StatusBadRequest}
	}
	form := galleryForm(r)
	img, closeImg, err := formUpload(r, "image")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Bad request", Code: http.StatusBadRequest}
	}
	defer closeImg()

	item, err := h.service.Edit(r.Context(), id, form, img)
	if errors.Is(err, service.ErrNotFound) {
		return h.loadError(err)
	}
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.log.Error(err, "failed to edit gallery item")
		}
		current, getErr := h.service.Get(r.Context(), id)
		if getErr != nil {
			return h.loadError(getErr)
		}
		return h.render(w, r, statusFor(err), "gallery_edit.html", map[string]interface{}{
			"Title":  current.Title,
			"Item":   current,
			"Form":   form,
			"Errors": fieldErrors(err),
			"Flash":  errorToast(err, service.MsgSaveFailed),
		})
	}

	middleware.SetFlash(r.Context(), h.session, service.MsgSaved, false)
	http.Redirect(w, r, "/gallery/"+item.ID, http.StatusSeeOther)
	return nil
}

// delete removes one item and its image.
func (h *GalleryHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := chi.URLParam(r, "id")
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		return h.loadError(err)
	}
	if err != nil {
		h.log.Error(err, "failed to delete gallery item")
		middleware.SetFlash(r.Context(), h.session, service.Message(err, service.MsgDeleteFailed), true)
		http.Redirect(w, r, "/gallery/"+id, http.StatusSeeOther)
		return nil
	}
	middleware.SetFlash(r.Context(), h.session, service.MsgDeleted, false)
	http.Redirect(w, r, "/gallery", http.StatusSeeOther)
	return nil
}

func (h *GalleryHandler) loadError(err error) *middleware.AppError {
	if errors.Is(err, service.ErrNotFound) {
		return &middleware.AppError{Error: err, Message: "Not Found", Code: http.StatusNotFound}
	}
	return &middleware.AppError{Error: err, Message: "Failed to load gallery item", Code: http.StatusInternalServerError}
}

func formOf(item *data.GalleryItem) service.GalleryForm {
	return service.GalleryForm{Title: item.Title, Description: item.Description, InSlideView: item.InSlideView}
}
