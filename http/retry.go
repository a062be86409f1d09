package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/sitegraph"
)

// Ensure RetryFetcher implements sitegraph.Fetcher at compile time.
var _ sitegraph.Fetcher = (*RetryFetcher)(nil)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryFunc is called before each retry attempt.
type RetryFunc func(url string, attempt int, err error)

// RetryFetcher retries transient fetch failures with backoff.
// Transport errors, 429 and 5xx responses are retried; other statuses and
// context errors are returned immediately. The traversal engine sees a
// single fetch regardless of how many attempts were made.
type RetryFetcher struct {
	next    sitegraph.Fetcher
	delays  []time.Duration
	onRetry RetryFunc
}

// NewRetryFetcher wraps next with len(delays) retries.
// onRetry may be nil.
func NewRetryFetcher(next sitegraph.Fetcher, delays []time.Duration, onRetry RetryFunc) *RetryFetcher {
	return &RetryFetcher{next: next, delays: delays, onRetry: onRetry}
}

// Fetch calls the wrapped fetcher until it succeeds, fails permanently, or
// the retries are exhausted. The last result and error are returned.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (*sitegraph.FetchResult, error) {
	maxAttempts := len(f.delays) + 1 // 1 initial + N retries

	var res *sitegraph.FetchResult
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err = f.next.Fetch(ctx, url)
		if err == nil || !retryable(ctx, res, err) {
			return res, err
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if f.onRetry != nil {
			f.onRetry(url, attempt+2, err)
		}

		timer := time.NewTimer(f.delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return res, err
}

func retryable(ctx context.Context, res *sitegraph.FetchResult, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	if res == nil {
		// Transport failure, including per-request timeouts.
		return true
	}
	return res.Status == http.StatusTooManyRequests || res.Status >= 500
}
