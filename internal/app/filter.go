package app

import (
	"strings"

	"github.com/quantmind-br/reposync/internal/domain"
)

// FilterDescriptors drops every descriptor whose name contains one of the
// exclude patterns, compared case-insensitively. Patterns are taken
// verbatim, so an empty pattern excludes every name. Order is preserved
// and the input is returned as-is when there are no patterns.
func FilterDescriptors(descriptors []domain.Descriptor, excludes []string) []domain.Descriptor {
	patterns := normalizePatterns(excludes)
	if len(patterns) == 0 {
		return descriptors
	}

	kept := make([]domain.Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if matchesAny(d.Name, patterns) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// IsExcluded reports whether name matches any of the exclude patterns
func IsExcluded(name string, excludes []string) bool {
	return matchesAny(name, normalizePatterns(excludes))
}

func normalizePatterns(excludes []string) []string {
	patterns := make([]string, 0, len(excludes))
	for _, p := range excludes {
		patterns = append(patterns, strings.ToLower(p))
	}
	return patterns
}

// matchesAny expects lower-cased patterns
func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
