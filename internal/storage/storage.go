// Package storage holds the object store used for uploaded images. Objects
// are addressed by slash-separated paths such as "images/gallery/<name>".
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Object path prefixes.
const (
	GalleryPrefix = "images/gallery"
	ProfilePrefix = "images/profile"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// ErrInvalidPath is returned for paths that are empty or escape the store.
var ErrInvalidPath = errors.New("invalid object path")

// ObjectStore stores binary objects and hands out URLs to download them.
// Deleting a missing object is not an error.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error
	URL(ctx context.Context, objectPath string) (string, error)
	Delete(ctx context.Context, objectPath string) error
	Exists(ctx context.Context, objectPath string) (bool, error)
}

// NewObjectPath returns a fresh path under prefix for an upload named
// filename. Each call yields a distinct path so a replacement never
// overwrites the object it replaces.
func NewObjectPath(prefix, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return path.Join(prefix, uuid.NewString()+"-"+name)
}

// cleanPath normalises p and rejects paths leaving the store root.
func cleanPath(p string) (string, error) {
	if p == "" {
		return "", ErrInvalidPath
	}
	c := path.Clean("/" + p)[1:]
	if c == "" || c != strings.TrimPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	return c, nil
}
