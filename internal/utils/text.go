package utils

import "unicode/utf8"

// TruncateRunes shortens s to at most max runes. Cutting on a rune boundary
// keeps multi-byte content valid UTF-8.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
