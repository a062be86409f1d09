package crawl

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// bfs explores the frontier level by level on a pool of cfg.Workers goroutines.
//
// Workers both consume and produce: each takes an entry, visits it, offers
// the children back into the same live frontier, and only then marks the
// entry done. The frontier holds back the next level until the current one
// has drained, so remaining depths do not depend on fetch timing. The run
// ends when the frontier is quiescent, i.e. nothing is queued and nothing is
// in flight, so an empty queue observed while a sibling is still fetching
// never ends the run early.
func (c *Crawler) bfs(ctx context.Context, r *run) error {
	f := r.frontier
	f.Offer(r.cfg.StartURL, r.cfg.MaxDepth)

	g, ctx := errgroup.WithContext(ctx)

	// Cancellation, or a failed worker, wakes blocked workers and stops
	// further dispatch.
	stop := context.AfterFunc(ctx, f.Close)
	defer stop()

	for range r.cfg.Workers {
		g.Go(func() error {
			for {
				e, ok := f.Take()
				if !ok {
					return ctx.Err()
				}
				for _, link := range c.visit(ctx, r, e) {
					f.Offer(link, e.Depth-1)
				}
				f.Done()
			}
		})
	}
	return g.Wait()
}
