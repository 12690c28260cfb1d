// Package slugs derives URL-safe identifiers from franchise names and item
// titles.
package slugs

import (
	"regexp"
	"strings"
)

var (
	// Anything that isn't a letter, digit, underscore, whitespace or hyphen.
	disallowedPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Zs}-]`)
	separatorPattern  = regexp.MustCompile(`[\s\p{Zs}-]+`)
)

// Slugify lower-cases s, drops punctuation, and joins the remaining words
// with single hyphens. Underscores and non-ASCII letters are kept.
//
//	Slugify("Mission: Impossible")     // "mission-impossible"
//	Slugify("  Multiple   Spaces  ")   // "multiple-spaces"
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = disallowedPattern.ReplaceAllString(s, "")
	s = separatorPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
