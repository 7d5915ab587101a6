// Package util provides common utility functions.
package util

import (
	"strings"

	"golang.org/x/text/cases"
)

var tagFolder = cases.Fold()

// FoldTagName normalizes a tag name for identity comparison.
// Display casing is preserved on the tag document itself; equality is
// decided on the folded form, so "Go", "go" and "GO" resolve to the
// same tag. Unicode case folding handles names beyond ASCII
// ("Straße" and "STRASSE" fold identically, unlike ToLower).
func FoldTagName(name string) string {
	return tagFolder.String(strings.TrimSpace(name))
}

// EqualTagNames reports whether two tag names refer to the same tag.
func EqualTagNames(a, b string) bool {
	return FoldTagName(a) == FoldTagName(b)
}
