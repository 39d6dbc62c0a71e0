package journal

import "strings"

// SplitTags splits one raw comma-separated tags field into trimmed tokens,
// dropping empty ones.
func SplitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// UniqueTags collects the distinct tags across many raw tags fields. Equality
// is exact-string after trim; result order follows first appearance.
func UniqueTags(fields []string) []string {
	seen := make(map[string]bool)
	unique := []string{}
	for _, field := range fields {
		for _, tag := range SplitTags(field) {
			if !seen[tag] {
				seen[tag] = true
				unique = append(unique, tag)
			}
		}
	}
	return unique
}
