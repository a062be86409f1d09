package mock

import "github.com/fwojciec/sitegraph"

var _ sitegraph.VisitedSet = (*VisitedSet)(nil)

// VisitedSet is a mock implementation of sitegraph.VisitedSet.
type VisitedSet struct {
	AddFn func(url string) bool
	LenFn func() int
}

func (s *VisitedSet) Add(url string) bool {
	return s.AddFn(url)
}

func (s *VisitedSet) Len() int {
	return s.LenFn()
}
