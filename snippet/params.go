package snippet

import (
	"regexp"
	"strings"
)

var paramRegex = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ExtractParams returns all {{param}} names from a command string
func ExtractParams(cmd string) []string {
	matches := paramRegex.FindAllStringSubmatch(cmd, -1)
	seen := make(map[string]bool)
	var params []string
	for _, m := range matches {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			params = append(params, name)
		}
	}
	return params
}

// SubstituteParams replaces {{param}} with provided values. Placeholders
// without a value are left in place.
func SubstituteParams(cmd string, values map[string]string) string {
	return paramRegex.ReplaceAllStringFunc(cmd, func(m string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(m, "{{"), "}}")
		if v, ok := values[name]; ok {
			return v
		}
		return m
	})
}
