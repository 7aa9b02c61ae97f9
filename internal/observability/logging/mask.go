package logging

import "strings"

// Mask hides all but the last four characters of a sensitive value so
// identifiers such as registration numbers never land in logs verbatim.
func Mask(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}
