package handler

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/service"
	"cms-dashboard/internal/session"
)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	users   AuthService
	oidc    Authenticator
	session session.Manager
	view    middleware.Renderer
	log     logger.Logger
}

// NewAuthHandler creates a new AuthHandler. oidc may be nil, which disables
// single sign-on.
func NewAuthHandler(users AuthService, oidc Authenticator, sm session.Manager, view middleware.Renderer, log logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, oidc: oidc, session: sm, view: view, log: log}
}

func (h *AuthHandler) renderSignIn(w http.ResponseWriter, r *http.Request, status int, data map[string]interface{}) *middleware.AppError {
	data["SSO"] = h.oidc != nil
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.view.Render(w, r, "sign_in.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

// signInForm shows the sign-in page, or sends signed-in users home.
func (h *AuthHandler) signInForm(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if !middleware.GetUserInfo(r.Context()).IsAnonymous() {
		http.Redirect(w, r, "/", http.StatusFound)
		return nil
	}
	return h.renderSignIn(w, r, http.StatusOK, map[string]interface{}{"Email": ""})
}

// signIn checks the submitted credentials and starts a session.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Bad request", Code: http.StatusBadRequest}
	}
	form := service.SignInForm{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}

	user, err := h.users.SignIn(r.Context(), form)
	if err != nil {
		h.log.With(map[string]interface{}{"email": form.Email}).Warn("sign-in rejected")
		return h.renderSignIn(w, r, statusFor(err), map[string]interface{}{
			"Email":  form.Email,
			"Errors": fieldErrors(err),
			"Flash":  errorToast(err, service.MsgUnknownError),
		})
	}

	if err := h.startSession(r, user.Email); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to start session", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// startSession renews the session token and records the subject.
func (h *AuthHandler) startSession(r *http.Request, subject string) error {
	if err := h.session.RenewToken(r.Context()); err != nil {
		return err
	}
	h.session.Put(r.Context(), session.SubjectKey, subject)
	return nil
}

// signOut destroys the session.
func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.session.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to sign out", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/sign-in", http.StatusFound)
	return nil
}

// PermissionDenied answers requests a signed-in user may not make. A
// submission is sent back to the page it came from with an error toast;
// anything else gets the 403 page.
func (h *AuthHandler) PermissionDenied(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	h.log.With(map[string]interface{}{
		"subject": middleware.GetUserInfo(r.Context()).Subject,
		"path":    r.URL.Path,
	}).Warn("permission denied")

	if back := refererPath(r); r.Method == http.MethodPost && back != "" && back != r.URL.Path {
		middleware.SetFlash(r.Context(), h.session, service.Message(service.ErrPermissionDenied, ""), true)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return nil
	}
	return &middleware.AppError{
		Error:   service.ErrPermissionDenied,
		Message: service.MsgPermissionDenied,
		Code:    statusFor(service.ErrPermissionDenied),
	}
}

// refererPath returns the path of a same-site Referer, or "".
func refererPath(r *http.Request) string {
	u, err := url.Parse(r.Referer())
	if err != nil || (u.Host != "" && u.Host != r.Host) || !strings.HasPrefix(u.Path, "/") {
		return ""
	}
	return u.Path
}

// handleLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.oidc == nil {
		return &middleware.AppError{Message: "Single sign-on is not configured", Code: http.StatusNotFound}
	}
	state, err := randString(16)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Internal Server Error", Code: http.StatusInternalServerError}
	}
	// Store the state in a short-lived cookie to verify on callback.
	http.SetCookie(w, &http.Cookie{
		Name:     "state",
		Value:    state,
		Path:     "/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
	})
	http.Redirect(w, r, h.oidc.AuthCodeURL(state), http.StatusFound)
	return nil
}

// handleCallback is the redirect URL for the OIDC provider.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.oidc == nil {
		return &middleware.AppError{Message: "Single sign-on is not configured", Code: http.StatusNotFound}
	}
	stateCookie, err := r.Cookie("state")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "state cookie not found", Code: http.StatusBadRequest}
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		return &middleware.AppError{Message: "state did not match", Code: http.StatusBadRequest}
	}
	http.SetCookie(w, &http.Cookie{Name: "state", Path: "/", MaxAge: -1})

	subject, err := h.oidc.Subject(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to sign in", Code: http.StatusUnauthorized}
	}
	if err := h.startSession(r, subject); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to start session", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
