// Package web embeds the dashboard's templates and browser assets.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:templates
var templateFS embed.FS

//go:embed all:static
var staticFS embed.FS

// TemplateFS holds templates/layouts and templates/pages.
var TemplateFS fs.FS = templateFS

// StaticFS holds the files served under /static/.
var StaticFS fs.FS = staticFS

// StaticHandler serves StaticFS. Request paths keep their /static prefix,
// which matches the directory name inside the embedded filesystem.
func StaticHandler() http.Handler {
	files := http.FileServer(http.FS(StaticFS))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
