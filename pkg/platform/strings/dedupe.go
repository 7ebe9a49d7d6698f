// Package strings holds small helpers for user-entered text lists.
package strings

import (
	"strings"
)

// NormalizeList trims each entry, collapses inner runs of whitespace and drops
// empty entries and case-insensitive repeats. The first spelling of a repeated
// entry wins and order is preserved. A nil or empty input is returned as is.
func NormalizeList(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		clean := strings.Join(strings.Fields(v), " ")
		if clean == "" {
			continue
		}
		fold := strings.ToLower(clean)
		if _, ok := seen[fold]; ok {
			continue
		}
		seen[fold] = struct{}{}
		result = append(result, clean)
	}
	return result
}
