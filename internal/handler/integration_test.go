//go:build integration

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"cms-dashboard/internal/auth"
	"cms-dashboard/internal/config"
	"cms-dashboard/internal/data"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/service"
	"cms-dashboard/internal/session"
	"cms-dashboard/internal/storage"
	"cms-dashboard/internal/view"
	"cms-dashboard/migrations"
	"cms-dashboard/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupIntegrationTest initializes a full application stack for testing and
// returns a client signed in as an editor.
func setupIntegrationTest(t *testing.T) (*httptest.Server, *http.Client, func()) {
	t.Helper()
	db, err := data.NewDB(data.DriverSQLite, "file:handlers?mode=memory&cache=shared")
	require.NoError(t, err)

	files, err := fs.Glob(migrations.FS, "sqlite3/*.up.sql")
	require.NoError(t, err)
	sort.Strings(files)
	for _, f := range files {
		schema, err := fs.ReadFile(migrations.FS, f)
		require.NoError(t, err)
		db.MustExec(string(schema))
	}

	log := logger.New(config.LogConfig{Level: "debug", Format: "console"}, nil)
	viewService, err := view.New(web.TemplateFS)
	require.NoError(t, err)

	sm := session.New(config.SessionConfig{LifetimeHours: 1}, data.DriverSQLite, db.DB)
	sm.Lifetime = 3 * time.Minute

	enforcer, err := auth.NewMemoryEnforcer()
	require.NoError(t, err)
	auth.SeedDefaultPolicies(enforcer, log)
	require.NoError(t, auth.GrantEditor(enforcer, "editor@example.com"))

	store := storage.NewMemoryStore("/media")
	users := service.NewAuthService(data.NewUserRepository(db))
	_, err = users.Register(context.Background(), "Editor@example.com", "correct-horse")
	require.NoError(t, err)

	authHandler := NewAuthHandler(users, nil, sm, viewService, log)
	errorPages := middleware.Error(log, viewService)
	router := NewRouter(Routes{
		Auth:      authHandler,
		Gallery:   NewGalleryHandler(service.NewGalleryService(data.NewSQLGalleryRepository(db), store, log), sm, viewService, log),
		Documents: NewDocumentHandler(service.NewAboutService(data.NewSQLAboutRepository(db), store, log), service.NewContactService(data.NewSQLContactRepository(db)), service.NewEditorService(), sm, viewService, log),
		Editor:    NewEditorHandler(service.NewEditorService(), log),
		Session:   sm,
		Authz:     middleware.Authorizer(enforcer, sm, log, errorPages(authHandler.PermissionDenied)),
		Errors:    errorPages,
		Static:    web.StaticHandler(),
		Ready:     func(ctx context.Context) error { return db.PingContext(ctx) },
	})
	srv := httptest.NewServer(router)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return srv, client, func() {
		srv.Close()
		db.Close()
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	buf := new(bytes.Buffer)
	_, err := buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return buf.String()
}

func TestHandlers_Integration(t *testing.T) {
	srv, client, teardown := setupIntegrationTest(t)
	defer teardown()

	t.Run("anonymous visitors are sent to sign-in", func(t *testing.T) {
		res, err := client.Get(srv.URL + "/gallery")
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusFound, res.StatusCode)
		assert.Equal(t, "/sign-in", res.Header.Get("Location"))
	})

	t.Run("static assets are public", func(t *testing.T) {
		res, err := client.Get(srv.URL + "/static/app.css")
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		res, err := client.PostForm(srv.URL+"/sign-in", url.Values{"email": {"editor@example.com"}, "password": {"nope"}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Contains(t, body(t, res), service.MsgInvalidCredentials)
	})

	t.Run("sign in", func(t *testing.T) {
		res, err := client.PostForm(srv.URL+"/sign-in", url.Values{"email": {"editor@example.com"}, "password": {"correct-horse"}})
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusFound, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))
	})

	var itemPath string
	t.Run("post an image", func(t *testing.T) {
		req := multipartRequest(srv.URL+"/gallery/post", map[string]string{"title": "Sunset"}, "image", "sunset.png", pngBytes(t))
		req.RequestURI = ""
		res, err := client.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusSeeOther, res.StatusCode)

		res, err = client.Get(srv.URL + "/gallery")
		require.NoError(t, err)
		page := body(t, res)
		assert.Contains(t, page, "Sunset")
		assert.Contains(t, page, service.MsgSaved, "toast after redirect")

		const card = `class="card" href="`
		i := strings.Index(page, card)
		require.GreaterOrEqual(t, i, 0)
		rest := page[i+len(card):]
		itemPath = rest[:strings.Index(rest, `"`)]
	})

	t.Run("post without an image", func(t *testing.T) {
		req := multipartRequest(srv.URL+"/gallery/post", map[string]string{"title": "Nothing"}, "", "", nil)
		req.RequestURI = ""
		res, err := client.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
		assert.Contains(t, body(t, res), service.MsgImageRequired)
	})

	t.Run("edit and delete", func(t *testing.T) {
		require.NotEmpty(t, itemPath)
		res, err := client.PostForm(srv.URL+itemPath, url.Values{"title": {"Sunrise"}})
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusSeeOther, res.StatusCode)

		res, err = client.Get(srv.URL + itemPath)
		require.NoError(t, err)
		assert.Contains(t, body(t, res), "Sunrise")

		res, err = client.PostForm(srv.URL+itemPath+"/delete", nil)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, "/gallery", res.Header.Get("Location"))

		res, err = client.Get(srv.URL + itemPath)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Contains(t, body(t, res), "Error 404")
	})

	t.Run("contact round trip", func(t *testing.T) {
		payload := `[{"type":"paragraph","children":[{"text":"mail me","bold":true}]}]`
		res, err := client.PostForm(srv.URL+"/contact", url.Values{"content": {payload}})
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusSeeOther, res.StatusCode)

		res, err = client.Get(srv.URL + "/contact")
		require.NoError(t, err)
		assert.Contains(t, body(t, res), "<strong>mail me</strong>")
	})

	t.Run("editor api", func(t *testing.T) {
		res, err := client.Post(srv.URL+"/api/preview", "application/json",
			strings.NewReader(`{"document":[{"type":"heading-1","children":[{"text":"Hi"}]}]}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)
		var preview previewResponse
		require.NoError(t, json.Unmarshal([]byte(body(t, res)), &preview))
		assert.Equal(t, `<h1 id="Hi">Hi</h1>`, string(preview.HTML))
	})

	t.Run("sign out", func(t *testing.T) {
		res, err := client.PostForm(srv.URL+"/sign-out", nil)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, "/sign-in", res.Header.Get("Location"))

		res, err = client.Get(srv.URL + "/about")
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusFound, res.StatusCode)
	})
}
