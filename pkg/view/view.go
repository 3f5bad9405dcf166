// Package view models one open document: the image-bearing elements a
// surface discovers candidates from, with their locators and dimensions.
package view

import (
	"strings"
)

// Element is one image-bearing element. ID stays empty until discovery
// assigns an identifier; once assigned it persists for the view's lifetime.
type Element struct {
	ID string

	Locator string

	DisplayWidth  float64
	DisplayHeight float64

	NaturalWidth  float64
	NaturalHeight float64
}

type View struct {
	URL string

	Elements []*Element
}

// Fetchable reports whether a locator can be acquired: a web URL or an
// embedded data reference.
func Fetchable(locator string) bool {
	return strings.HasPrefix(locator, "http://") ||
		strings.HasPrefix(locator, "https://") ||
		strings.HasPrefix(locator, "data:")
}

// Restricted reports whether a document location must not be analyzed,
// such as internal pages and local files.
func Restricted(location string) bool {
	for _, scheme := range []string{"about:", "chrome:", "edge:", "view-source:", "file:"} {
		if strings.HasPrefix(location, scheme) {
			return true
		}
	}

	return false
}
