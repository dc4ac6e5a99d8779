// Package locales embeds the translation files loaded by the i18n bundle.
package locales

import "embed"

//go:embed active.*.toml
var FS embed.FS
