package utils

import (
	"strconv"
)

// ParseID parses a positive path id. It returns 0 for anything else so the schema
// reports the field as missing.
func ParseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
