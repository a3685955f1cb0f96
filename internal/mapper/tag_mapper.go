package mapper

import (
	"sort"
	"strings"
)

// CleanTags trims every tag and drops empty ones. The result is never nil.
func CleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

// SortedVocabulary orders tags by descending use, then alphabetically.
func SortedVocabulary(counts map[string]int) []string {
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return strings.ToLower(tags[i]) < strings.ToLower(tags[j])
	})
	return tags
}
