package utils

import "strings"

// OneOf returns true if the given string is one of the given values
func OneOf(s string, values []string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}

	return false
}

// OneOfFold returns true if the given string is one of the given values,
// ignoring case
func OneOfFold(s string, values []string) bool {
	for _, v := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}

	return false
}
