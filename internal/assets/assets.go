// Package assets provides embedded web templates, static files and the
// default catalog document.
package assets

import (
	"embed"
	"io/fs"
)

// SeedName is the migration name the default catalog is recorded under.
const SeedName = "seed_default_catalog"

// EmbeddedFiles contains the embedded web UI assets (HTML, CSS, JS).
//
//go:embed web/templates/*.html web/static/*
var EmbeddedFiles embed.FS

//go:embed seed/default_catalog.json
var defaultCatalog []byte

// GetTemplatesFS returns the HTML templates rooted at their directory.
func GetTemplatesFS() fs.FS {
	sub, err := fs.Sub(EmbeddedFiles, "web/templates")
	if err != nil {
		panic("templates directory missing from embedded assets: " + err.Error())
	}
	return sub
}

// GetStaticFS returns the CSS and JS files rooted at their directory.
func GetStaticFS() fs.FS {
	sub, err := fs.Sub(EmbeddedFiles, "web/static")
	if err != nil {
		panic("static directory missing from embedded assets: " + err.Error())
	}
	return sub
}

// DefaultCatalog returns a copy of the embedded default catalog in export format.
func DefaultCatalog() []byte {
	out := make([]byte, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}
