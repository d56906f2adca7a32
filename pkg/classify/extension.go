package classify

import (
	"strings"
	"unicode/utf8"
)

// maxPlausibleExtension is the longest suffix (dot included) still taken
// at face value. Longer suffixes usually mean the name uses dots as
// separators.
const maxPlausibleExtension = 10

// ExtensionResolver derives the real extension of a file name,
// compensating for malformed names.
type ExtensionResolver struct {
	known []string
}

// NewExtensionResolver creates a resolver searching the given known
// extensions when the literal suffix is missing or implausible
func NewExtensionResolver(known []string) *ExtensionResolver {
	lowered := make([]string, 0, len(known))
	for _, ext := range known {
		lowered = append(lowered, strings.ToLower(ext))
	}
	return &ExtensionResolver{known: lowered}
}

// Resolve returns the best-guess extension of name (lower-cased, leading
// dot) or "" when none can be determined.
//
// When the literal suffix is empty or longer than 10 characters, the whole
// name is searched for known extensions and the longest match wins. The
// literal suffix is kept when the search finds nothing.
func (r *ExtensionResolver) Resolve(name string) string {
	ext := literalSuffix(name)
	if ext != "" && utf8.RuneCountInString(ext) <= maxPlausibleExtension {
		return ext
	}

	lower := strings.ToLower(name)
	found := ""
	for _, known := range r.known {
		if len(known) > len(found) && strings.Contains(lower, known) {
			found = known
		}
	}
	if found != "" {
		return found
	}
	return ext
}

// literalSuffix returns the lower-cased text from the last dot of name.
// Leading dots (hidden files) and a trailing bare dot do not count.
func literalSuffix(name string) string {
	base := strings.TrimLeft(name, ".")
	idx := strings.LastIndex(base, ".")
	if idx < 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx:])
}
