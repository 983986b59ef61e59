// Package sanitizer cleans untrusted text before it is stored.
package sanitizer

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = sync.OnceValue(bluemonday.StrictPolicy)

// StripHTML removes every tag, keeping only the text content. Entities are
// decoded, so the result is plain text and must be escaped again on output.
func StripHTML(s string) string {
	return html.UnescapeString(strictPolicy().Sanitize(s))
}

// DisplayName turns a provider nickname or user input into a single line of
// plain text: markup and control characters are dropped and runs of
// whitespace collapse to one space.
func DisplayName(s string) string {
	s = StripHTML(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
