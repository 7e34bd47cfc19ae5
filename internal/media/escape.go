package media

import (
	"net/url"
	"strings"
)

// EscapeSegment percent-encodes s for use as one URL path segment.
// Spaces become %20 rather than '+'.
func EscapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
