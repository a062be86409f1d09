package crawl

import (
	"context"

	"github.com/fwojciec/sitegraph"
)

// dfs explores depth-first on the calling goroutine: a page's whole subtree
// completes before its next sibling starts. The visited check happens when a
// URL is reached, not when its parent is expanded, so completion order is
// strict pre-order. Recursion depth is bounded by cfg.MaxDepth because each
// level decrements the remaining depth and depth 0 is never claimed.
func (c *Crawler) dfs(ctx context.Context, r *run, url string, depth int) {
	if ctx.Err() != nil {
		return
	}
	if !r.frontier.Claim(url, depth) {
		return
	}
	for _, link := range c.visit(ctx, r, sitegraph.Entry{URL: url, Depth: depth}) {
		c.dfs(ctx, r, link, depth-1)
	}
}
