package diff

import "sort"

// HandleSet is a set of stored screen names. Membership is exact string
// equality, so "@Bob" and "@bob" are different members.
type HandleSet map[string]struct{}

// NewHandleSet builds a set from handles; repeated handles collapse
func NewHandleSet(handles ...string) HandleSet {
	s := make(HandleSet, len(handles))
	for _, h := range handles {
		s.Add(h)
	}
	return s
}

func (s HandleSet) Add(handle string) {
	s[handle] = struct{}{}
}

func (s HandleSet) Has(handle string) bool {
	_, ok := s[handle]
	return ok
}

func (s HandleSet) Len() int {
	return len(s)
}

// Difference returns the members of s that are not in other
func (s HandleSet) Difference(other HandleSet) HandleSet {
	out := make(HandleSet)
	for h := range s {
		if !other.Has(h) {
			out.Add(h)
		}
	}
	return out
}

// Sorted returns the members in lexical order, for display
func (s HandleSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
