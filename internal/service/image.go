package service

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/storage"
)

// Upload is a file submitted with a form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// imageSize decodes the dimensions of the uploaded image and rewinds the
// body for the upload that follows.
func imageSize(u *Upload) (width, height int, err error) {
	cfg, format, err := image.DecodeConfig(u.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if _, err := u.Body.Seek(0, io.SeekStart); err != nil {
		return 0, 0, fmt.Errorf("failed to rewind upload: %w", err)
	}
	if u.ContentType == "" || u.ContentType == "application/octet-stream" {
		u.ContentType = "image/" + format
	}
	return cfg.Width, cfg.Height, nil
}

// imageStore uploads images to object storage and cleans up after them.
type imageStore struct {
	store storage.ObjectStore
	log   logger.Logger
}

// storedImage is an uploaded object with its resolved URL.
type storedImage struct {
	objectPath string
	url        string
	width      int
	height     int
	filename   string
}

func (s *imageStore) put(ctx context.Context, prefix string, img *Upload) (*storedImage, error) {
	width, height, err := imageSize(img)
	if err != nil {
		return nil, err
	}
	objectPath := storage.NewObjectPath(prefix, img.Filename)
	if err := s.store.Upload(ctx, objectPath, img.Body, img.Size, img.ContentType); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	url, err := s.store.URL(ctx, objectPath)
	if err != nil {
		s.discard(ctx, objectPath)
		return nil, fmt.Errorf("failed to resolve image url: %w", err)
	}
	return &storedImage{
		objectPath: objectPath,
		url:        url,
		width:      width,
		height:     height,
		filename:   path.Base(strings.ReplaceAll(img.Filename, "\\", "/")),
	}, nil
}

// discard deletes an object that is no longer referenced. Failures leave
// an orphan behind and are only logged.
func (s *imageStore) discard(ctx context.Context, objectPath string) {
	if objectPath == "" {
		return
	}
	if err := s.store.Delete(ctx, objectPath); err != nil {
		s.log.With(map[string]interface{}{"object": objectPath}).Error(err, "failed to delete unreferenced object")
		return
	}
	s.log.With(map[string]interface{}{"object": objectPath}).Warn("deleted unreferenced object")
}

