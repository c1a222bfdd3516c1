package util

import "strings"

// NormalizeLabel lowercases and collapses inner whitespace.
func NormalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
