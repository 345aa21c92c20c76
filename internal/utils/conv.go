package utils

import (
	"strconv"
)

// StringToUint converts a route parameter to uint, returning 0 on garbage.
func StringToUint(s string) uint {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(i)
}

// UintToString formats an id for URLs.
func UintToString(i uint) string {
	return strconv.FormatUint(uint64(i), 10)
}
