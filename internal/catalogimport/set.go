package catalogimport

import "strings"

// nameSet tracks the dishes already seen in one import run, keyed by
// case-folded category and name.
type nameSet struct {
	names map[string]struct{}
}

func newNameSet(capacity int) *nameSet {
	return &nameSet{names: make(map[string]struct{}, capacity)}
}

func nameKey(category, name string) string {
	return strings.ToLower(strings.TrimSpace(category)) + "\x00" + strings.ToLower(strings.TrimSpace(name))
}

// Add records the dish and reports whether it was new.
func (s *nameSet) Add(category, name string) bool {
	key := nameKey(category, name)
	if _, exists := s.names[key]; exists {
		return false
	}
	s.names[key] = struct{}{}
	return true
}

// Size returns the number of distinct dishes seen.
func (s *nameSet) Size() int {
	return len(s.names)
}
