// Package text cleans raw detector output before it is translated.
package text

import (
	"regexp"
	"strings"
)

var hyphenBreak = regexp.MustCompile(`(\p{Ll})-\s*\n\s*(\p{Ll})`)

// Normalize rejoins the line fragments of one detected region. Detectors
// report text the way it is laid out in the image; for translation only the
// content matters. Words hyphenated across a line wrap are stitched back
// together, then remaining whitespace runs collapse to single spaces, so
// two renderings of the same content yield the same cache key.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	text = hyphenBreak.ReplaceAllString(text, "$1$2")

	return strings.Join(strings.Fields(text), " ")
}
