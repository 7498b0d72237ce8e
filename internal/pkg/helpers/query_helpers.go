package helpers

import (
	"strconv"
	"strings"
)

// QueryBool reports whether a raw query value is the literal "true".
// Anything else, including "True" or "1", is treated as false.
func QueryBool(raw string) bool {
	return raw == "true"
}

// QueryInt64 parses a positive id, returning nil for empty or malformed input.
func QueryInt64(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// QueryText trims a free-text value and returns nil when nothing is left.
func QueryText(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}
