// Package views embeds the page templates rendered by the Fiber html engine.
package views

import "embed"

//go:embed *.html layouts/*.html partials/*.html
var FS embed.FS
