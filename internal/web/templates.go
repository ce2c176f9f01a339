package web

import (
	"html/template"
	"path/filepath"
)

var templateFiles = []string{
	"layout.html",
	"input.html",
	"sheet.html",
	"maneuver.html",
	"auth.html",
}

// ParseTemplates loads every page template from dir.
func ParseTemplates(dir string) (*template.Template, error) {
	paths := make([]string, len(templateFiles))
	for i, f := range templateFiles {
		paths[i] = filepath.Join(dir, f)
	}
	return template.ParseFiles(paths...)
}
