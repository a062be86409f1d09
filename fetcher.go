package sitegraph

import "context"

// FetchResult is the outcome of a successful fetch.
type FetchResult struct {
	// Status is the HTTP status code.
	Status int
	// Body is the decoded response body.
	Body string
	// FinalURL is the URL the response was served from after redirects.
	FinalURL string
}

// OK reports whether the status is a 2xx success.
func (r *FetchResult) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Fetcher retrieves pages over HTTP.
type Fetcher interface {
	// Fetch performs a GET request for url.
	// A non-nil error is a failed fetch: transport errors, timeouts and
	// non-success statuses are all reported this way (code EFETCH).
	// For a non-success status the result is returned alongside the error
	// so callers can inspect the status.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}
