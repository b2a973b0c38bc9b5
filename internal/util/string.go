package util

import "strings"

// TruncateRunes cuts a string to maxRunes characters. Rune-based so Japanese
// summaries are not split mid-character.
func TruncateRunes(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RuneLen returns the character count of a string. Summary-length thresholds
// are specified in characters, not bytes.
func RuneLen(s string) int {
	return len([]rune(s))
}
