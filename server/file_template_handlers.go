package server

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*
var templateFiles embed.FS

const contentTypeHTML = "text/html; charset=utf-8"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"add": func(a, b int) int { return a + b },
}

// ParseTemplate parses the page template name together with the partials it
// includes. The returned template executes name.
func ParseTemplate(name string, partials ...string) (*template.Template, error) {
	files := append([]string{name}, partials...)
	return template.New(name).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), files...)
}
