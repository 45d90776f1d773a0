// Package placeholder extracts and fills {name} tokens in command templates.
package placeholder

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

var labels = map[string]string{
	"target":   "Target",
	"port":     "Port",
	"lhost":    "LHOST",
	"lport":    "LPORT",
	"rhost":    "RHOST",
	"rport":    "RPORT",
	"domain":   "Domain",
	"iface":    "Interface",
	"protocol": "Protocol",
	"file":     "File path",
	"script":   "Script",
}

// Extract returns the distinct placeholder names in template, in order of
// first appearance.
func Extract(template string) []string {
	matches := tokenPattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Render substitutes values into template. Placeholders without a non-empty
// value are left as-is so the caller can see what is still missing.
// extraArgs, when set, is appended after a single space.
func Render(template string, values map[string]string, extraArgs string) string {
	out := tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[1 : len(token)-1]
		if v := strings.TrimSpace(values[name]); v != "" {
			return v
		}
		return token
	})

	if extra := strings.TrimSpace(extraArgs); extra != "" {
		out = strings.TrimSpace(out + " " + extra)
	}
	return out
}

// Missing returns placeholders in template that values does not fill.
func Missing(template string, values map[string]string) []string {
	missing := make([]string, 0)
	for _, name := range Extract(template) {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Label returns the display label for a placeholder name.
func Label(name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	return name
}
