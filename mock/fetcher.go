package mock

import (
	"context"

	"github.com/fwojciec/sitegraph"
)

var _ sitegraph.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitegraph.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*sitegraph.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitegraph.FetchResult, error) {
	return f.FetchFn(ctx, url)
}
