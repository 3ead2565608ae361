package xstrconv

import (
	"strconv"
	"strings"
)

// ParseBool accepts the html form values "on"/"off" in addition to the
// values understood by strconv.ParseBool.
func ParseBool(str string) (bool, error) {
	switch strings.ToLower(str) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return strconv.ParseBool(str)
	}
}
