package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID parses a positive numeric path or query identifier.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

// ParseOptionalID returns nil for an empty value.
func ParseOptionalID(value string) (*int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := ParseID(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
