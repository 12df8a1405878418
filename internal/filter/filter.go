// Package filter screens free text posted to the public board.
package filter

import "strings"

// denylist entries are matched as lower-case substrings, not whole words.
var denylist = []string{
	"bhadwa",
	"chutiya",
	"madarchod",
	"behenchod",
	"saala",
	"asshole",
	"fuck",
	"shit",
	"bitch",
	"gandu",
}

// IsClean reports whether text contains none of the denylisted substrings,
// case-insensitively. Empty text is clean.
func IsClean(text string) bool {
	if text == "" {
		return true
	}
	lower := strings.ToLower(text)
	for _, word := range denylist {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

// AllClean reports whether every field passes IsClean.
func AllClean(fields ...string) bool {
	for _, f := range fields {
		if !IsClean(f) {
			return false
		}
	}
	return true
}

// Denylist returns a copy of the filtered substrings.
func Denylist() []string {
	out := make([]string, len(denylist))
	copy(out, denylist)
	return out
}
