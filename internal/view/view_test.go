//go:build unit

package view

import (
	"bytes"
	"html/template"
	"net/http/httptest"
	"testing"

	"cms-dashboard/internal/data"
	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/service"
	"cms-dashboard/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "", formatMillis(nil))
	// Formatting uses local time, so compare against the same conversion.
	assert.Len(t, formatMillis(ptr(1700000000000)), len("2006/01/02 - 15:04"))
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": "two"}, m)

	_, err = dict("a")
	assert.Error(t, err)
	_, err = dict(1, 2)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	v, err := New(web.TemplateFS)
	require.NoError(t, err)

	editor := &middleware.UserInfo{Subject: "editor@example.com"}
	item := &data.GalleryItem{ID: "a", URL: "/media/a.png", Title: "Cat", Filename: "cat.png", UpdatedAt: ptr(1)}
	legacy := &data.GalleryItem{ID: "b", URL: "/media/b.png", Title: "Old"}

	cases := []struct {
		page string
		data map[string]interface{}
		want []string
	}{
		{"error.html", map[string]interface{}{"StatusCode": 404, "StatusText": "Not Found"}, []string{"Error 404", "Not Found"}},
		{"sign_in.html", map[string]interface{}{"Email": "", "SSO": true}, []string{`action="/sign-in"`, "/auth/login"}},
		{"sign_in.html", map[string]interface{}{
			"Email": "x", "Errors": map[string]string{"email": "Please enter an email address"},
		}, []string{"Please enter an email address"}},
		{"gallery_list.html", map[string]interface{}{"Title": "Gallery", "Items": []*data.GalleryItem{item, legacy}}, []string{`href="/gallery/a"`, "Cat", "--/--/-- --:--"}},
		{"gallery_post.html", map[string]interface{}{"Title": "Post", "Form": service.GalleryForm{}}, []string{`enctype="multipart/form-data"`}},
		{"gallery_edit.html", map[string]interface{}{"Title": "Cat", "Item": item, "Form": service.GalleryForm{Title: "Cat", InSlideView: true}}, []string{"/gallery/a/delete", "checked", "cat.png"}},
		{"about.html", map[string]interface{}{
			"Title": "About", "About": &data.About{}, "IconURL": "",
			"Profile": "[]", "ProfileHTML": template.HTML("<p>me</p>"), "Works": "[]", "WorksHTML": template.HTML(""),
		}, []string{`data-editor="profile"`, `data-editor="works"`, "<p>me</p>"}},
		{"contact.html", map[string]interface{}{
			"Title": "Contact", "Contact": &data.Contact{}, "Content": `[{"type":"paragraph"}]`, "ContentHTML": template.HTML(""),
		}, []string{`name="content"`, "&#34;paragraph&#34;"}},
	}

	for _, tc := range cases {
		t.Run(tc.page, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req = req.WithContext(middleware.SetUserInfo(req.Context(), editor))
			buf := new(bytes.Buffer)

			require.NoError(t, v.Render(buf, req, tc.page, tc.data))

			assert.Contains(t, buf.String(), "Sign out")
			for _, w := range tc.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}

	t.Run("handler flash wins over the session flash", func(t *testing.T) {
		buf := new(bytes.Buffer)
		data := map[string]interface{}{"StatusCode": 500, "StatusText": "x", "Flash": &middleware.Flash{Message: "Failed to save", IsError: true}}
		require.NoError(t, v.Render(buf, httptest.NewRequest("GET", "/", nil), "error.html", data))
		assert.Contains(t, buf.String(), "toast-error")
		assert.NotContains(t, buf.String(), "Sign out")
	})

	t.Run("unknown template", func(t *testing.T) {
		err := v.Render(new(bytes.Buffer), httptest.NewRequest("GET", "/", nil), "nope.html", nil)
		assert.EqualError(t, err, "template nope.html not found")
	})
}
