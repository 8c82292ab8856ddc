package domain

import (
	"strconv"
	"strings"
)

// TrimOrPlaceholder trims s and substitutes the "-" placeholder when the
// result is empty. Used for the textual identifier fields.
func TrimOrPlaceholder(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Placeholder
	}
	return trimmed
}

// TrimOrNil trims s and returns nil when the result is empty. Used for the
// nullable descriptive fields.
func TrimOrNil(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ParseIntOrNil parses s as a base-10 integer, returning nil when the value
// is absent or not numeric.
func ParseIntOrNil(s string) *int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &n
}
