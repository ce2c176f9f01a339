package web

import (
	"path/filepath"
	"strings"

	"dollsheet/internal/icons"
)

const assetCacheControl = "public, max-age=3600"

// staticAssetPath maps a catalogued asset URL to a file under StaticDir.
// The result is rejected if it would escape StaticDir.
func (s *Server) staticAssetPath(a icons.Asset) (string, bool) {
	if s.StaticDir == "" {
		return "", false
	}
	rel := strings.TrimPrefix(a.Path, "/static/")
	if rel == a.Path || rel == "" {
		return "", false
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || filepath.IsAbs(clean) || strings.Contains(clean, "..") {
		return "", false
	}

	baseDir := filepath.Clean(s.StaticDir)
	resolved := filepath.Join(baseDir, clean)
	r, err := filepath.Rel(baseDir, resolved)
	if err != nil || strings.HasPrefix(r, "..") {
		return "", false
	}
	return resolved, true
}
