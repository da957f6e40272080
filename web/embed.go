// Package web provides the embedded HTML templates of the summarizer UI.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexTemplate is the name of the landing page template.
const IndexTemplate = "index.html"

// Templates parses every embedded template.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
