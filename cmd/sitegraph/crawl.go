package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/sitegraph"
	"github.com/fwojciec/sitegraph/crawl"
	"github.com/fwojciec/sitegraph/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg, err := c.config()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitegraph.ErrorMessage(err))
		return err
	}
	if deps.Crawler == nil {
		return sitegraph.Errorf(sitegraph.EINTERNAL, "crawler not configured")
	}

	result, crawlErr := deps.Crawler.Crawl(deps.Ctx, cfg)
	if result == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitegraph.ErrorMessage(crawlErr))
		return crawlErr
	}
	if crawlErr != nil {
		fmt.Fprintf(deps.Stderr, "warning: crawl stopped early: %v\n", crawlErr)
	}

	fmt.Fprintf(deps.Stdout, "Crawled %d pages (%d failed) in %s\n",
		result.Graph.Len(), result.Failed, result.Duration.Round(time.Millisecond))
	if result.Truncated {
		fmt.Fprintf(deps.Stdout, "  Stopped at %d fetches; some reachable pages were not visited\n", cfg.MaxPages)
	}

	if deps.NewWriter != nil {
		dir := c.Output
		if dir == "" {
			dir = fs.DirName(cfg.Domain, cfg.MaxDepth)
		}
		if err := deps.NewWriter(dir).WriteGraph(deps.Ctx, result.Graph); err != nil {
			fmt.Fprintf(deps.Stderr, "error: failed to write output: %v\n", err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", dir)
	}

	if !c.NoSave && deps.Runs != nil {
		run := &sitegraph.Run{
			StartURL: cfg.StartURL,
			Domain:   cfg.Domain,
			Strategy: cfg.Strategy,
			MaxDepth: cfg.MaxDepth,
		}
		if err := deps.Runs.CreateRun(deps.Ctx, run, result.Graph); err != nil {
			fmt.Fprintf(deps.Stderr, "error: failed to save run: %s\n", sitegraph.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved run %s\n", run.ID)
	}

	if deps.Metrics != nil {
		if err := deps.Metrics(); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: failed to write metrics: %v\n", err)
		}
	}

	return crawlErr
}

// config builds the traversal configuration from the command's flags.
func (c *CrawlCmd) config() (sitegraph.Config, error) {
	strategy := sitegraph.StrategyBFS
	if c.Strategy != "" {
		var err error
		if strategy, err = sitegraph.ParseStrategy(c.Strategy); err != nil {
			return sitegraph.Config{}, err
		}
	}
	workers := c.Workers
	if workers == 0 {
		workers = crawl.DefaultWorkers
	}

	domain := c.Domain
	if domain == "" {
		domain = defaultDomain(c.URL)
	}

	cfg := sitegraph.Config{
		StartURL:     c.URL,
		MaxDepth:     c.Depth,
		Domain:       domain,
		Strategy:     strategy,
		Workers:      workers,
		MaxPages:     c.MaxPages,
		FetchTimeout: c.FetchTimeout,
		Timeout:      c.Timeout,
	}
	if err := cfg.Validate(); err != nil {
		return sitegraph.Config{}, err
	}
	return cfg, nil
}

// defaultDomain derives the crawl domain from the start URL, so that
// "https://www.x.test/" maps all of x.test.
func defaultDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
