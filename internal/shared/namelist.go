package shared

import "strings"

// JoinNames builds the comma-separated accessory list stored on purchase rows.
// Entries are trimmed and empties dropped, so a join/split round-trip is stable.
func JoinNames(names []string) string {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cleaned = append(cleaned, name)
	}
	return strings.Join(cleaned, ",")
}

// SplitNames parses a comma-separated accessory list back into individual names.
func SplitNames(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		names = append(names, part)
	}
	return names
}
