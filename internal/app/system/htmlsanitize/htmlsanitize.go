// Package htmlsanitize strips unsafe markup from free-text fields before
// they are stored. Report notes are the only user-supplied rich text in the
// application.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

var strict = bluemonday.StrictPolicy()

// Sanitize removes scripts, event handlers, and javascript: URLs while
// keeping common user-generated-content markup.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// PlainText strips all markup, leaving text content only. Used for report
// notes, which are rendered as plain text by every consumer.
func PlainText(s string) string {
	return strict.Sanitize(s)
}
