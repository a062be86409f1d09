package crawl

import "github.com/fwojciec/sitegraph"

var _ sitegraph.VisitedSet = (*VisitedSet)(nil)

// VisitedSet is an exact in-memory visited set.
// It is not safe for concurrent use on its own; Frontier serializes access.
type VisitedSet struct {
	m map[string]struct{}
}

// NewVisitedSet returns an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{m: make(map[string]struct{})}
}

// Add marks url visited. Returns false if it was already present.
func (s *VisitedSet) Add(url string) bool {
	if _, ok := s.m[url]; ok {
		return false
	}
	s.m[url] = struct{}{}
	return true
}

// Len returns the number of visited URLs.
func (s *VisitedSet) Len() int {
	return len(s.m)
}
