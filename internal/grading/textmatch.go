package grading

import "strings"

// Fold normalizes free-text answers for comparison: surrounding whitespace
// is ignored and matching is case-insensitive. Interior spacing is kept,
// so "L A C" and "LAC" stay distinct.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
