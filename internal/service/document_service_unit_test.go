//go:build unit

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloDoc = `[{"type":"paragraph","children":[{"text":"hello"}]}]`

func newTestAboutService(repo *mockAboutRepository, store *storage.MemoryStore) *AboutService {
	s := NewAboutService(repo, store, logger.Nop())
	s.now = func() time.Time { return time.UnixMilli(9000) }
	return s
}

func TestAboutService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves icon object path", func(t *testing.T) {
		store := storage.NewMemoryStore("http://cdn")
		require.NoError(t, store.Upload(ctx, "images/profile/me.png", strings.NewReader("x"), 1, ""))
		repo := &mockAboutRepository{about: &data.About{
			ID: data.DocumentID, IconObjectPath: "images/profile/me.png", Profile: helloDoc, Works: "",
		}}
		page, err := newTestAboutService(repo, store).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "http://cdn/images/profile/me.png", page.IconURL)
		assert.Equal(t, helloDoc, page.Profile.String())
		assert.Len(t, page.Works.Children, 1)
	})

	t.Run("legacy absolute icon url", func(t *testing.T) {
		repo := &mockAboutRepository{about: &data.About{
			ID: data.DocumentID, IconObjectPath: "https://old.example/icon.png", Profile: helloDoc, Works: helloDoc,
		}}
		page, err := newTestAboutService(repo, storage.NewMemoryStore("")).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://old.example/icon.png", page.IconURL)
	})

	t.Run("missing icon object", func(t *testing.T) {
		repo := &mockAboutRepository{about: &data.About{
			ID: data.DocumentID, IconObjectPath: "images/profile/gone.png", Profile: helloDoc, Works: helloDoc,
		}}
		page, err := newTestAboutService(repo, storage.NewMemoryStore("")).Get(ctx)
		require.NoError(t, err)
		assert.Empty(t, page.IconURL)
	})

	t.Run("malformed document", func(t *testing.T) {
		repo := &mockAboutRepository{about: &data.About{ID: data.DocumentID, Profile: `{"nope":1}`}}
		_, err := newTestAboutService(repo, storage.NewMemoryStore("")).Get(ctx)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := newTestAboutService(&mockAboutRepository{}, storage.NewMemoryStore("")).Get(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAboutService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps createdAt and replaces icon", func(t *testing.T) {
		store := storage.NewMemoryStore("http://cdn")
		require.NoError(t, store.Upload(ctx, "images/profile/old.png", strings.NewReader("x"), 1, ""))
		repo := &mockAboutRepository{about: &data.About{
			ID: data.DocumentID, IconObjectPath: "images/profile/old.png", Profile: helloDoc, Works: helloDoc,
			CreatedAt: ptr(100), UpdatedAt: ptr(200),
		}}
		s := newTestAboutService(repo, store)

		about, err := s.Save(ctx, helloDoc, helloDoc, pngUpload(t, "me.png", 8, 8))
		require.NoError(t, err)
		assert.Equal(t, int64(100), *about.CreatedAt)
		assert.Equal(t, int64(9000), *about.UpdatedAt)
		assert.True(t, strings.HasPrefix(about.IconObjectPath, storage.ProfilePrefix+"/"))
		assert.Equal(t, []string{about.IconObjectPath}, store.Paths())
	})

	t.Run("first save creates the document", func(t *testing.T) {
		repo := &mockAboutRepository{}
		about, err := newTestAboutService(repo, storage.NewMemoryStore("")).Save(ctx, helloDoc, "", nil)
		require.NoError(t, err)
		assert.Equal(t, data.DocumentID, repo.about.ID)
		assert.Equal(t, int64(9000), *about.CreatedAt)
		assert.Equal(t, `[{"type":"paragraph","children":[{"text":""}]}]`, repo.about.Works)
	})

	t.Run("failed write keeps the old icon", func(t *testing.T) {
		store := storage.NewMemoryStore("")
		require.NoError(t, store.Upload(ctx, "images/profile/old.png", strings.NewReader("x"), 1, ""))
		repo := &mockAboutRepository{
			about:  &data.About{ID: data.DocumentID, IconObjectPath: "images/profile/old.png"},
			putErr: errors.New("write failed"),
		}
		_, err := newTestAboutService(repo, store).Save(ctx, helloDoc, helloDoc, pngUpload(t, "me.png", 1, 1))
		assert.Error(t, err)
		assert.Equal(t, []string{"images/profile/old.png"}, store.Paths())
	})

	t.Run("legacy url icon is not deleted", func(t *testing.T) {
		store := storage.NewMemoryStore("")
		repo := &mockAboutRepository{about: &data.About{ID: data.DocumentID, IconObjectPath: "https://old.example/i.png"}}
		about, err := newTestAboutService(repo, store).Save(ctx, helloDoc, helloDoc, pngUpload(t, "me.png", 1, 1))
		require.NoError(t, err)
		assert.Equal(t, []string{about.IconObjectPath}, store.Paths())
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		repo := &mockAboutRepository{}
		_, err := newTestAboutService(repo, storage.NewMemoryStore("")).Save(ctx, `[{"type":"blink","children":[]}]`, helloDoc, nil)
		assert.ErrorIs(t, err, ErrInvalidDocument)
		assert.Nil(t, repo.about)
	})
}

func TestContactService(t *testing.T) {
	ctx := context.Background()

	t.Run("get not found", func(t *testing.T) {
		_, err := NewContactService(&mockContactRepository{}).Get(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save then get", func(t *testing.T) {
		repo := &mockContactRepository{contact: &data.Contact{ID: data.DocumentID, Content: helloDoc, CreatedAt: ptr(1)}}
		s := NewContactService(repo)
		s.now = func() time.Time { return time.UnixMilli(77) }

		saved, err := s.Save(ctx, `[{"type":"heading-1","children":[{"text":"Hi"}]}]`)
		require.NoError(t, err)
		assert.Equal(t, int64(1), *saved.CreatedAt)
		assert.Equal(t, int64(77), *saved.UpdatedAt)

		page, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, `[{"type":"heading-1","children":[{"text":"Hi"}]}]`, page.Content.String())
	})

	t.Run("save rejects malformed payload", func(t *testing.T) {
		_, err := NewContactService(&mockContactRepository{}).Save(ctx, "not json")
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	repo := &mockUserRepository{}
	s := NewAuthService(repo)

	user, err := s.Register(ctx, "Editor@Example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "editor@example.com", user.Email)
	assert.Equal(t, int64(1), user.ID)

	t.Run("sign in", func(t *testing.T) {
		u, err := s.SignIn(ctx, SignInForm{Email: "EDITOR@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.SignIn(ctx, SignInForm{Email: "editor@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, MsgInvalidCredentials, Message(err, MsgUnknownError))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := s.SignIn(ctx, SignInForm{Email: "who@example.com", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("invalid form", func(t *testing.T) {
		_, err := s.SignIn(ctx, SignInForm{Email: "not-an-email"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "email")
		assert.Contains(t, verr.Fields, "password")
	})

	t.Run("set password", func(t *testing.T) {
		require.NoError(t, s.SetPassword(ctx, "editor@example.com", "another-pass"))
		_, err := s.SignIn(ctx, SignInForm{Email: "editor@example.com", Password: "another-pass"})
		assert.NoError(t, err)
		assert.ErrorIs(t, s.SetPassword(ctx, "who@example.com", "another-pass"), ErrNotFound)
	})
}
