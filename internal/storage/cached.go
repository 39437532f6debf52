package storage

import (
	"context"
	"io"
	"time"
)

// URLCache is the key/value cache CachedStore keeps URLs in.
type URLCache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// CachedStore wraps an ObjectStore and caches the URLs it hands out.
// Presigned URLs expire, so ttl must be shorter than the store's URL expiry.
// Cache failures fall through to the wrapped store.
type CachedStore struct {
	ObjectStore
	cache URLCache
	ttl   time.Duration
}

// NewCachedStore returns store with URL lookups cached for ttl.
func NewCachedStore(store ObjectStore, cache URLCache, ttl time.Duration) *CachedStore {
	return &CachedStore{ObjectStore: store, cache: cache, ttl: ttl}
}

func urlKey(objectPath string) string {
	return "url:" + objectPath
}

// URL returns the cached URL for objectPath, asking the wrapped store on a miss.
func (s *CachedStore) URL(ctx context.Context, objectPath string) (string, error) {
	if v, err := s.cache.Get(urlKey(objectPath)); err == nil && v != nil {
		return string(v), nil
	}
	u, err := s.ObjectStore.URL(ctx, objectPath)
	if err != nil {
		return "", err
	}
	_ = s.cache.Set(urlKey(objectPath), []byte(u), s.ttl)
	return u, nil
}

// Upload stores the object and forgets any cached URL for its path.
func (s *CachedStore) Upload(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error {
	_ = s.cache.Delete(urlKey(objectPath))
	return s.ObjectStore.Upload(ctx, objectPath, r, size, contentType)
}

// Delete removes the object and its cached URL.
func (s *CachedStore) Delete(ctx context.Context, objectPath string) error {
	_ = s.cache.Delete(urlKey(objectPath))
	return s.ObjectStore.Delete(ctx, objectPath)
}

var _ ObjectStore = (*CachedStore)(nil)
