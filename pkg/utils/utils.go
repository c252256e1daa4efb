package utils

import (
	"fmt"
	"strings"
)

// SplitList splits a comma separated list, trimming spaces and dropping
// empty items
func SplitList(s string) []string {
	var items []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			items = append(items, v)
		}
	}

	return items
}

// KeyValues parses a "key=value,key=value" list
func KeyValues(s string) (map[string]string, error) {
	var kv = map[string]string{}
	for _, item := range SplitList(s) {
		k, v, ok := strings.Cut(item, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid key=value pair: %q", item)
		}
		kv[k] = strings.TrimSpace(v)
	}

	return kv, nil
}
