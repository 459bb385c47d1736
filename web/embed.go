// Package web carries the embedded dashboard templates and static assets.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS

// PlaceholderImage replaces a plot image the backend failed to serve.
//
//go:embed static/plot-placeholder.svg
var PlaceholderImage []byte
