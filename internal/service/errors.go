package service

import (
	"errors"
	"sort"
	"strings"

	"cms-dashboard/internal/richtext"
)

var (
	// ErrNotFound is returned when the requested document or item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied is returned when the caller may not perform the operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidDocument is returned when a stored or submitted document is malformed.
	ErrInvalidDocument = richtext.ErrInvalidDocument
	// ErrInvalidCredentials is returned when sign-in fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidImage is returned when an upload cannot be decoded as an image.
	ErrInvalidImage = errors.New("unsupported image")
)

// Toast messages shown after a form submission.
const (
	MsgSaved              = "Saved"
	MsgDeleted            = "Deleted"
	MsgSaveFailed         = "Failed to save"
	MsgDeleteFailed       = "Failed to delete"
	MsgPermissionDenied   = "Permission denied"
	MsgUnknownError       = "Some kind of error occurred"
	MsgTitleRequired      = "Please enter a title"
	MsgImageRequired      = "Please choose an image"
	MsgInvalidCredentials = "Wrong email address or password"
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Message maps err to the toast shown for a failed submission. Errors
// without a dedicated message get fallback.
func Message(err error, fallback string) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return MsgPermissionDenied
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.As(err, &verr):
		// The first field message doubles as the toast.
		for _, f := range []string{"title", "image", "email", "password"} {
			if m, ok := verr.Fields[f]; ok {
				return m
			}
		}
	}
	return fallback
}
