package match

import (
	"html"
	"regexp"
	"strings"
)

var punctExpr = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)

// Normalize cleans a raw recipe title into a comparable form: HTML entities
// are decoded, everything that is not alphanumeric, whitespace, or a hyphen
// becomes a space, and whitespace runs collapse to single spaces. Case is
// preserved so the result stays usable for display and query construction;
// comparisons fold case themselves.
func Normalize(title string) string {
	decoded := html.UnescapeString(title)
	cleaned := punctExpr.ReplaceAllString(decoded, " ")
	return strings.Join(strings.Fields(cleaned), " ")
}
