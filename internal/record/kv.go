package record

import "strings"

// ParseKeyValues turns free text into a key/value map. Every line holding
// a colon is split on its first colon; key and value are trimmed and the
// line is dropped when either side ends up empty. Later lines overwrite
// earlier ones with the same key.
func ParseKeyValues(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		fields[key] = value
	}
	return fields
}
