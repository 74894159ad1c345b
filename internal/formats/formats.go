package formats

import (
	"sort"
	"strings"
	"sync"
)

// builtinCategories are the category labels every installation recognizes.
var builtinCategories = []string{
	"accessibility",
	"application launchers",
	"astronomy",
	"date and time",
	"development tools",
	"education",
	"environment and weather",
	"examples",
	"file system",
	"fun and games",
	"graphics",
	"language",
	"mapping",
	"miscellaneous",
	"multimedia",
	"online services",
	"productivity",
	"system information",
	"utilities",
	"windows and tasks",
}

var (
	mu     sync.RWMutex
	custom = make(map[string]bool)
)

// Normalize canonicalizes a category label for lookup.
func Normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// AddCategory registers a custom category label. Registration is idempotent.
func AddCategory(category string) {
	c := Normalize(category)
	if c == "" {
		return
	}
	mu.Lock()
	custom[c] = true
	mu.Unlock()
}

// Known reports whether a category label is recognized, either built-in or
// registered via AddCategory.
func Known(category string) bool {
	c := Normalize(category)

	mu.RLock()
	ok := custom[c]
	mu.RUnlock()
	if ok {
		return true
	}

	for _, b := range builtinCategories {
		if b == c {
			return true
		}
	}
	return false
}

// KnownCategories returns every recognized category label, sorted.
func KnownCategories() []string {
	seen := make(map[string]bool, len(builtinCategories)+len(custom))
	var out []string

	mu.RLock()
	for _, c := range builtinCategories {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for c := range custom {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	mu.RUnlock()

	sort.Strings(out)
	return out
}
