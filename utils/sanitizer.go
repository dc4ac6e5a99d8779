package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes every tag; used for text that must render as plain text
var StrictPolicy = bluemonday.StrictPolicy()

// StripHTML removes all markup from content.
// Entities escaped by the policy are decoded again because templates escape on output.
func StripHTML(content string) string {
	return html.UnescapeString(StrictPolicy.Sanitize(content))
}

// PlainText strips markup and collapses whitespace runs so list previews stay on one line
func PlainText(content string) string {
	return strings.Join(strings.Fields(StripHTML(content)), " ")
}
