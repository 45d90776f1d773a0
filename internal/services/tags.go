package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseTags normalizes tags from form input or imported JSON.
//
// A list is trimmed element-wise with empty entries dropped; a string is split
// on commas first. Nil and empty input yield an empty, non-nil slice. The
// result is stable under a second ParseTags call.
func ParseTags(raw any) []string {
	tags := []string{}

	switch v := raw.(type) {
	case nil:
		return tags
	case []string:
		for _, item := range v {
			if t := strings.TrimSpace(item); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	case []any:
		for _, item := range v {
			if t := strings.TrimSpace(tagText(item)); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}

	for _, part := range strings.Split(stringify(raw), ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// tagText is stringify for list elements, except nested objects and arrays
// are kept as their compact JSON text.
func tagText(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return stringify(v)
}

// stringify renders a decoded JSON scalar as text. Objects, arrays, and null
// become the empty string.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case int, int64:
		return fmt.Sprint(s)
	default:
		return ""
	}
}
