package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileSystemStore keeps objects as files below a root directory and serves
// them from PublicBaseURL:
//
//	<root>/
//	  images/
//	    gallery/<name>
//	    profile/<name>
type FileSystemStore struct {
	root          string
	publicBaseURL string
}

// NewFileSystemStore creates a store rooted at root, creating it if needed.
func NewFileSystemStore(root, publicBaseURL string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FileSystemStore{root: root, publicBaseURL: strings.TrimSuffix(publicBaseURL, "/")}, nil
}

func (s *FileSystemStore) file(objectPath string) (string, string, error) {
	p, err := cleanPath(objectPath)
	if err != nil {
		return "", "", err
	}
	return p, filepath.Join(s.root, filepath.FromSlash(p)), nil
}

// Upload writes r to the file for objectPath. The file is written under a
// temporary name and renamed so readers never see a partial object.
func (s *FileSystemStore) Upload(_ context.Context, objectPath string, r io.Reader, size int64, _ string) error {
	_, dest, err := s.file(objectPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	if size >= 0 && written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}

// URL returns the public URL of an existing object.
func (s *FileSystemStore) URL(_ context.Context, objectPath string) (string, error) {
	p, full, err := s.file(objectPath)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", p, ErrNotFound)
		}
		return "", fmt.Errorf("failed to stat object: %w", err)
	}
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBaseURL + "/" + strings.Join(segments, "/"), nil
}

// Delete removes the file for objectPath.
func (s *FileSystemStore) Delete(_ context.Context, objectPath string) error {
	_, full, err := s.file(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists reports whether the file for objectPath exists.
func (s *FileSystemStore) Exists(_ context.Context, objectPath string) (bool, error) {
	_, full, err := s.file(objectPath)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// Handler serves the stored files. Mount it under the path of
// PublicBaseURL.
func (s *FileSystemStore) Handler() http.Handler {
	return http.FileServer(http.Dir(s.root))
}

var _ ObjectStore = (*FileSystemStore)(nil)
