// Package crawl provides the traversal engine.
// It owns the frontier, the visited set and the site graph of a run, and
// explores a domain breadth-first on a bounded worker pool or depth-first
// on a single goroutine.
package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/sitegraph"
)

// DefaultWorkers is the BFS worker pool size used when none is configured.
const DefaultWorkers = 10

// Crawler maps a domain by fetching pages and following their links.
// A Crawler holds no per-run state, so one Crawler can serve concurrent runs.
type Crawler struct {
	Fetcher   sitegraph.Fetcher
	Extractor sitegraph.LinkExtractor
	Observer  sitegraph.Observer

	// NewVisitedSet creates the visited set for each run.
	// Defaults to an exact in-memory set.
	NewVisitedSet func() sitegraph.VisitedSet
}

// Result holds the outcome of a traversal.
type Result struct {
	Graph *sitegraph.Graph

	// Dispatched is the number of fetches started.
	Dispatched int
	// Failed is the number of fetches that produced no page record.
	Failed int
	// Truncated is set when the page cap left reachable URLs unfetched.
	Truncated bool
	Duration  time.Duration
}

// run is the state of a single traversal.
type run struct {
	cfg      sitegraph.Config
	frontier *Frontier
	observer sitegraph.Observer

	mu     sync.Mutex
	pages  []*sitegraph.Page
	failed int
}

// Crawl traverses cfg.Domain from cfg.StartURL using cfg.Strategy.
//
// Configuration errors are returned before any fetch. Per-page failures never
// abort the run; they leave the URL visited but absent from the graph.
// If ctx is canceled or cfg.Timeout expires, dispatch stops, in-flight
// fetches are awaited, and the partial result is returned with the context error.
func (c *Crawler) Crawl(ctx context.Context, cfg sitegraph.Config) (*Result, error) {
	if cfg.Strategy == "" {
		cfg.Strategy = sitegraph.StrategyBFS
	}
	if cfg.Strategy == sitegraph.StrategyBFS && cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c.Fetcher == nil || c.Extractor == nil {
		return nil, sitegraph.Errorf(sitegraph.EINVALID, "crawler requires a fetcher and an extractor")
	}
	cfg.StartURL = stripFragment(cfg.StartURL)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	newVisited := c.NewVisitedSet
	if newVisited == nil {
		newVisited = func() sitegraph.VisitedSet { return NewVisitedSet() }
	}

	r := &run{
		cfg:      cfg,
		frontier: NewFrontier(newVisited(), cfg.MaxPages),
		observer: c.Observer,
	}

	begin := time.Now()
	var err error
	switch cfg.Strategy {
	case sitegraph.StrategyDFS:
		c.dfs(ctx, r, cfg.StartURL, cfg.MaxDepth)
	default:
		err = c.bfs(ctx, r)
	}
	if err == nil {
		err = ctx.Err()
	}

	r.mu.Lock()
	result := &Result{
		Graph:      sitegraph.NewGraph(r.pages),
		Dispatched: r.frontier.Dispatched(),
		Failed:     r.failed,
		Truncated:  r.frontier.Truncated(),
		Duration:   time.Since(begin),
	}
	r.mu.Unlock()

	r.observe(sitegraph.Event{
		Type:     sitegraph.EventCompleted,
		URL:      cfg.StartURL,
		Depth:    cfg.MaxDepth,
		Duration: result.Duration,
		Pages:    result.Graph.Len(),
		Failed:   result.Failed,
		Err:      err,
	})

	return result, err
}

// visit fetches a dispatched entry, records its page on success, and returns
// the links to expand. It returns nil for failed fetches.
func (c *Crawler) visit(ctx context.Context, r *run, e sitegraph.Entry) []string {
	r.observe(sitegraph.Event{
		Type:  sitegraph.EventDispatched,
		URL:   e.URL,
		Depth: e.Depth,
	})

	fetchCtx := ctx
	if r.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, r.cfg.FetchTimeout)
		defer cancel()
	}

	begin := time.Now()
	res, err := c.Fetcher.Fetch(fetchCtx, e.URL)
	duration := time.Since(begin)
	if err == nil && !res.OK() {
		status := 0
		if res != nil {
			status = res.Status
		}
		err = sitegraph.Errorf(sitegraph.EFETCH, "HTTP %d for %s", status, e.URL)
	}
	if err != nil {
		r.fail()
		ev := sitegraph.Event{
			Type:     sitegraph.EventFetchFailed,
			URL:      e.URL,
			Depth:    e.Depth,
			Duration: duration,
			Err:      err,
		}
		if res != nil {
			ev.Status = res.Status
		}
		r.observe(ev)
		return nil
	}

	page := &sitegraph.Page{
		URL:         e.URL,
		Title:       sitegraph.NoTitle,
		Depth:       e.Depth,
		Status:      res.Status,
		ContentHash: computeHash(res.Body),
	}

	base := res.FinalURL
	if base == "" {
		base = e.URL
	}
	extraction, err := c.Extractor.Extract(res.Body, base, r.cfg.Domain)
	if err != nil {
		r.observe(sitegraph.Event{
			Type:  sitegraph.EventExtractFailed,
			URL:   e.URL,
			Depth: e.Depth,
			Err:   err,
		})
	} else {
		if extraction.Title != "" {
			page.Title = extraction.Title
		}
		page.Links = collectLinks(extraction, r.cfg.Domain)
	}

	r.record(page)
	r.observe(sitegraph.Event{
		Type:     sitegraph.EventFetchSucceeded,
		URL:      e.URL,
		Depth:    e.Depth,
		Status:   res.Status,
		Links:    len(page.Links),
		Duration: duration,
	})

	return page.Links
}

// collectLinks drains an extraction's link sequence, keeping in-domain URLs
// once each in first-seen order.
func collectLinks(extraction *sitegraph.Extraction, domain string) []string {
	if extraction.Links == nil {
		return nil
	}
	var links []string
	seen := make(map[string]struct{})
	for link := range extraction.Links {
		link = stripFragment(link)
		if _, ok := seen[link]; ok {
			continue
		}
		if !inDomain(link, domain) {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}

func (r *run) record(p *sitegraph.Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, p)
}

func (r *run) fail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func (r *run) observe(e sitegraph.Event) {
	if r.observer != nil {
		r.observer.Observe(e)
	}
}

// inDomain reports whether rawURL is an http(s) URL whose host is in domain.
func inDomain(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return sitegraph.HostInDomain(u.Hostname(), domain)
}

// stripFragment removes the fragment so URLs differing only by it share identity.
func stripFragment(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}
