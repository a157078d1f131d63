package common

import (
	"strconv"
	"strings"
	"time"
)

// AtoiDefault converts the provided string to an integer falling back to the default when parsing fails.
func AtoiDefault(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// ParseDateDefault parses a YYYY-MM-DD or RFC3339 value, falling back to def.
func ParseDateDefault(value string, def time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	return def
}
