package filtering

import (
	"fmt"

	"github.com/gobwas/glob"
)

// NameFilter decides whether a product name is listed, using glob patterns
type NameFilter interface {
	// ShouldInclude determines if a product name should be listed based on include/exclude patterns
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(name string, include, exclude []string) (bool, string)
}

// defaultNameFilter implements name filtering using glob patterns
type defaultNameFilter struct{}

var _ NameFilter = (*defaultNameFilter)(nil)

// NewDefaultNameFilter creates a new defaultNameFilter
func NewDefaultNameFilter() NameFilter {
	return &defaultNameFilter{}
}

// ValidatePatterns reports the first pattern that does not compile
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
	}
	return nil
}

func matchPattern(pattern, name string) (bool, error) {
	compiled, err := glob.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid glob pattern: %v", err)
	}
	return compiled.Match(name), nil
}

// ShouldInclude determines if a product name should be listed
//
// Logic:
// 1. A name matching any exclude pattern is dropped (exclude takes precedence)
// 2. With include patterns, a name must match at least one of them
// 3. With no patterns at all, every name is listed
func (*defaultNameFilter) ShouldInclude(name string, include, exclude []string) (bool, string) {
	for _, pattern := range exclude {
		matches, err := matchPattern(pattern, name)
		if err != nil {
			return false, fmt.Sprintf("invalid exclude pattern '%s': %v", pattern, err)
		}
		if matches {
			return false, fmt.Sprintf("excluded by pattern '%s'", pattern)
		}
	}

	if len(include) > 0 {
		for _, pattern := range include {
			matches, err := matchPattern(pattern, name)
			if err != nil {
				return false, fmt.Sprintf("invalid include pattern '%s': %v", pattern, err)
			}
			if matches {
				return true, fmt.Sprintf("included by pattern '%s'", pattern)
			}
		}
		return false, fmt.Sprintf("no match found in include patterns %v", include)
	}

	if len(exclude) > 0 {
		return true, fmt.Sprintf("no match in exclude patterns %v", exclude)
	}
	return true, "no name rules specified"
}
