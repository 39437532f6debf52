package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/service"

	"golang.org/x/oauth2"
)

// GalleryService is what the gallery handlers need from the service layer.
type GalleryService interface {
	List(ctx context.Context) ([]*data.GalleryItem, error)
	Get(ctx context.Context, id string) (*data.GalleryItem, error)
	Post(ctx context.Context, form service.GalleryForm, img *service.Upload) (*data.GalleryItem, error)
	Edit(ctx context.Context, id string, form service.GalleryForm, img *service.Upload) (*data.GalleryItem, error)
	Delete(ctx context.Context, id string) error
}

// AboutService is what the about handlers need from the service layer.
type AboutService interface {
	Get(ctx context.Context) (*service.AboutPage, error)
	Save(ctx context.Context, profile, works string, icon *service.Upload) (*data.About, error)
}

// ContactService is what the contact handlers need from the service layer.
type ContactService interface {
	Get(ctx context.Context) (*service.ContactPage, error)
	Save(ctx context.Context, content string) (*data.Contact, error)
}

// AuthService checks dashboard credentials.
type AuthService interface {
	SignIn(ctx context.Context, form service.SignInForm) (*data.User, error)
}

// EditorService runs rich-text commands.
type EditorService interface {
	Apply(req service.EditorRequest) (*service.EditorResponse, error)
	Preview(payload string) (template.HTML, error)
}

// Authenticator is the OIDC flow used for single sign-on.
type Authenticator interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Subject(ctx context.Context, code string) (string, error)
}

// maxUploadBytes bounds multipart form bodies.
const maxUploadBytes = 32 << 20

// statusFor maps a service error to the HTTP status of the response.
func statusFor(err error) int {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.As(err, &verr), errors.Is(err, service.ErrInvalidImage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidDocument), errors.Is(err, service.ErrUnknownCommand):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fieldErrors returns the per-field messages carried by err, if any.
func fieldErrors(err error) map[string]string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

// errorToast is the flash shown on a page re-rendered after a failed submission.
func errorToast(err error, fallback string) *middleware.Flash {
	return &middleware.Flash{Message: service.Message(err, fallback), IsError: true}
}

// formUpload reads the optional file field of a multipart form. A missing
// file or a urlencoded body yields a nil upload. The returned func closes the file.
func formUpload(r *http.Request, field string) (*service.Upload, func(), error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return &service.Upload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}

// parseForm parses either a multipart or a urlencoded body.
func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return r.ParseForm()
}
