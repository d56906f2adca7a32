package organize

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ExcludeMatcher decides which files the organizer leaves alone.
// Patterns support:
//   - Name globs: *.crdownload, .~lock.*
//   - Folder patterns: images/ (every file under that folder)
//   - Path globs: documents/*/draft-*
type ExcludeMatcher struct {
	names   []string
	folders []string
	paths   []string
}

// NewExcludeMatcher validates and compiles exclusion patterns
func NewExcludeMatcher(patterns []string) (*ExcludeMatcher, error) {
	m := &ExcludeMatcher{}
	for _, raw := range patterns {
		pattern := filepath.ToSlash(strings.TrimSpace(raw))
		if pattern == "" {
			continue
		}

		if strings.HasSuffix(pattern, "/") {
			m.folders = append(m.folders, strings.Trim(pattern, "/"))
			continue
		}

		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", raw, err)
		}
		if strings.Contains(pattern, "/") {
			m.paths = append(m.paths, pattern)
		} else {
			m.names = append(m.names, pattern)
		}
	}
	return m, nil
}

// Excluded reports whether a root-relative path matches any pattern
func (m *ExcludeMatcher) Excluded(relativePath string) bool {
	if m == nil {
		return false
	}

	rel := filepath.ToSlash(filepath.Clean(relativePath))
	name := path.Base(rel)

	for _, pattern := range m.names {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	for _, folder := range m.folders {
		if strings.HasPrefix(rel, folder+"/") {
			return true
		}
	}
	for _, pattern := range m.paths {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
