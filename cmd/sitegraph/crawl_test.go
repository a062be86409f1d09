package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/sitegraph"
	main "github.com/fwojciec/sitegraph/cmd/sitegraph"
	"github.com/fwojciec/sitegraph/crawl"
	"github.com/fwojciec/sitegraph/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockCrawler returns a crawler whose pages link to nothing.
func newMockCrawler(fetched *[]string) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*sitegraph.FetchResult, error) {
				if fetched != nil {
					*fetched = append(*fetched, url)
				}
				return &sitegraph.FetchResult{Status: 200, Body: "<html></html>"}, nil
			},
		},
		Extractor: &mock.LinkExtractor{
			ExtractFn: func(_, _, _ string) (*sitegraph.Extraction, error) {
				return &sitegraph.Extraction{Title: "Home", Links: func(yield func(string) bool) {}}, nil
			},
		},
	}
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes graph and saves run", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		var writtenDir string
		var written *sitegraph.Graph
		var saved *sitegraph.Run
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Crawler: newMockCrawler(&fetched),
			NewWriter: func(dir string) sitegraph.GraphWriter {
				writtenDir = dir
				return &mock.GraphWriter{
					WriteGraphFn: func(_ context.Context, g *sitegraph.Graph) error {
						written = g
						return nil
					},
				}
			},
			Runs: &mock.RunService{
				CreateRunFn: func(_ context.Context, run *sitegraph.Run, g *sitegraph.Graph) error {
					run.ID = "run-1"
					saved = run
					return nil
				},
			},
		}

		cmd := &main.CrawlCmd{URL: "https://www.example.com/", Depth: 2, Strategy: "dfs"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.example.com/"}, fetched)
		assert.Equal(t, "example.com_depth=2", writtenDir)
		require.NotNil(t, written)
		assert.Equal(t, "Home", written.Get("https://www.example.com/").Title)
		require.NotNil(t, saved)
		assert.Equal(t, "example.com", saved.Domain)
		assert.Equal(t, sitegraph.StrategyDFS, saved.Strategy)
		assert.Equal(t, 2, saved.MaxDepth)
		assert.Contains(t, stdout.String(), "Crawled 1 pages")
		assert.Contains(t, stdout.String(), "Saved run run-1")
	})

	t.Run("uses explicit domain and output", func(t *testing.T) {
		t.Parallel()

		var writtenDir string
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Crawler: newMockCrawler(nil),
			NewWriter: func(dir string) sitegraph.GraphWriter {
				writtenDir = dir
				return &mock.GraphWriter{
					WriteGraphFn: func(context.Context, *sitegraph.Graph) error { return nil },
				}
			},
		}

		cmd := &main.CrawlCmd{URL: "https://blog.example.com/", Depth: 1, Domain: "example.com", Output: "out", NoSave: true}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "out", writtenDir)
	})

	t.Run("rejects invalid config before crawling", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Crawler: newMockCrawler(&fetched),
		}

		cmd := &main.CrawlCmd{URL: "https://example.com/", Depth: 0, NoSave: true}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitegraph.EINVALID, sitegraph.ErrorCode(err))
		assert.Empty(t, fetched)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("keeps partial result when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		crawler := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*sitegraph.FetchResult, error) {
					cancel()
					return &sitegraph.FetchResult{Status: 200}, nil
				},
			},
			Extractor: &mock.LinkExtractor{
				ExtractFn: func(_, _, _ string) (*sitegraph.Extraction, error) {
					return &sitegraph.Extraction{Links: func(yield func(string) bool) {
						yield("https://example.com/next")
					}}, nil
				},
			},
		}

		var written *sitegraph.Graph
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     ctx,
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Crawler: crawler,
			NewWriter: func(string) sitegraph.GraphWriter {
				return &mock.GraphWriter{
					WriteGraphFn: func(_ context.Context, g *sitegraph.Graph) error {
						written = g
						return nil
					},
				}
			},
		}

		cmd := &main.CrawlCmd{URL: "https://example.com/", Depth: 3, Strategy: "dfs", NoSave: true}
		err := cmd.Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, written)
		assert.True(t, written.Has("https://example.com/"))
		assert.Contains(t, stderr.String(), "warning:")
	})

	t.Run("reports page cap", func(t *testing.T) {
		t.Parallel()

		crawler := newMockCrawler(nil)
		crawler.Extractor = &mock.LinkExtractor{
			ExtractFn: func(_, _, _ string) (*sitegraph.Extraction, error) {
				return &sitegraph.Extraction{Links: func(yield func(string) bool) {
					_ = yield("https://example.com/a") && yield("https://example.com/b")
				}}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Crawler: crawler,
		}

		cmd := &main.CrawlCmd{URL: "https://example.com/", Depth: 3, Strategy: "bfs", Workers: 1, MaxPages: 1, NoSave: true}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "Stopped at 1 fetches")
	})

	t.Run("calls metrics hook", func(t *testing.T) {
		t.Parallel()

		called := false
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Crawler: newMockCrawler(nil),
			Metrics: func() error {
				called = true
				return nil
			},
		}

		cmd := &main.CrawlCmd{URL: "https://example.com/", Depth: 1, NoSave: true}
		require.NoError(t, cmd.Run(deps))
		assert.True(t, called)
	})

	t.Run("returns error when saving fails", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Crawler: newMockCrawler(nil),
			Runs: &mock.RunService{
				CreateRunFn: func(context.Context, *sitegraph.Run, *sitegraph.Graph) error {
					return sitegraph.Errorf(sitegraph.EINTERNAL, "disk full")
				},
			},
		}

		cmd := &main.CrawlCmd{URL: "https://example.com/", Depth: 1}
		require.Error(t, cmd.Run(deps))
		assert.Contains(t, stderr.String(), "failed to save run")
	})
}
