package utils

import (
	"fmt"
	"strconv"
)

// ParseID converts a path segment to a positive row id. Ids are capped at
// the signed 64-bit range the stores use for primary keys.
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 63)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
