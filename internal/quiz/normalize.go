package quiz

import "strings"

// Normalize prepares a free-text answer for comparison: surrounding
// whitespace is irrelevant and matching is case-insensitive. Total over any
// input; "" normalizes to "".
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
