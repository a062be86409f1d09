package mock

import "github.com/fwojciec/sitegraph"

var _ sitegraph.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitegraph.LinkExtractor.
type LinkExtractor struct {
	ExtractFn func(body, baseURL, domain string) (*sitegraph.Extraction, error)
}

func (e *LinkExtractor) Extract(body, baseURL, domain string) (*sitegraph.Extraction, error) {
	return e.ExtractFn(body, baseURL, domain)
}
