// Package sanitize strips markup from user-entered free text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element from s and trims surrounding whitespace.
// Entities escaped by the policy are decoded again so plain text such as
// "A & B" survives unchanged.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
