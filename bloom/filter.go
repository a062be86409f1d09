// Package bloom provides an approximate visited set backed by a Bloom filter.
// It trades exactness for bounded memory on very large crawls: a false
// positive makes the frontier skip a URL that was never fetched, but a URL
// is never fetched twice.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/sitegraph"
)

// DefaultFalsePositiveRate is used when none is configured.
const DefaultFalsePositiveRate = 0.001

// Ensure Filter implements sitegraph.VisitedSet.
var _ sitegraph.VisitedSet = (*Filter)(nil)

// Filter wraps a Bloom filter for URL deduplication.
// Like the exact set, it relies on the frontier to serialize access.
type Filter struct {
	f     *bloom.BloomFilter
	count int
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFalsePositiveRate
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a URL to the filter.
// Returns false if the URL might already be present.
func (f *Filter) Add(url string) bool {
	if f.f.TestAndAddString(url) {
		return false
	}
	f.count++
	return true
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// Len returns the number of URLs accepted by Add.
func (f *Filter) Len() int {
	return f.count
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
