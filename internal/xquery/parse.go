package xquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mani-shailesh/focus/internal/xstrconv"
)

func ParseBool(query url.Values, name string, defaultValue bool) bool {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := xstrconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func ParseInt(query url.Values, name string, defaultValue int) int {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func ParseString(query url.Values, name string, defaultValue string) string {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}
	return value
}

// ParseOrder reports whether results should be returned oldest first.
// The default (order=-1 or unset) is newest first.
func ParseOrder(query url.Values) bool {
	return ParseInt(query, "order", -1) != -1
}

// ParseIntSlice parses a comma separated list of integers, skipping values
// that do not parse.
func ParseIntSlice(query url.Values, name string, defaultValue []int) []int {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	var result []int
	for _, part := range strings.Split(value, ",") {
		parsed, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		result = append(result, parsed)
	}
	return result
}
