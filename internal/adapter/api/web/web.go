// Package web embeds the HTML templates and static assets of the viewer.
package web

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/V4T54L/matterlog/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template. Pages are executed by file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // the embedded directory always exists
	}
	return sub
}

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"plural":   Plural,
	"datepath": DatePath,
}

// Plural picks the singular or plural noun for n.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// DatePath renders a date as the relative URL path YYYY/MM/DD.
func DatePath(d *domain.Date) string {
	y, m, dd := d.Path()
	return y + "/" + m + "/" + dd
}
