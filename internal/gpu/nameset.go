package gpu

import "golang.org/x/exp/slices"

// NameSet holds layer, extension or feature names.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s NameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Missing returns the names absent from the set, in the order given.
func (s NameSet) Missing(names []string) []string {
	var missing []string
	for _, name := range names {
		if !s.Contains(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

func (s NameSet) ContainsAll(names []string) bool {
	return len(s.Missing(names)) == 0
}

func (s NameSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
