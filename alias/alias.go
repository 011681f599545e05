// Package alias stores the name to expansion mapping consulted for the
// first word of a freshly expanded line.
package alias

import "sort"

// Store is the alias table. Resolution is performed once per line and is
// not recursive.
type Store struct {
	aliases map[string]string
}

// NewStore returns an empty alias table.
func NewStore() *Store {
	return &Store{aliases: make(map[string]string)}
}

// Set defines or replaces an alias.
func (s *Store) Set(name, expansion string) {
	s.aliases[name] = expansion
}

// Unset removes an alias, reporting whether it existed.
func (s *Store) Unset(name string) bool {
	if _, ok := s.aliases[name]; !ok {
		return false
	}
	delete(s.aliases, name)
	return true
}

// Resolve looks up the expansion for name.
func (s *Store) Resolve(name string) (string, bool) {
	expansion, ok := s.aliases[name]
	return expansion, ok
}

// Names returns the defined alias names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of defined aliases.
func (s *Store) Len() int {
	return len(s.aliases)
}
