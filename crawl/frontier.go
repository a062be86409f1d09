package crawl

import (
	"sync"

	"github.com/fwojciec/sitegraph"
)

// Frontier is the shared work queue of a traversal together with its visited set.
// It is safe for concurrent use by multiple goroutines.
//
// Every mutation happens under a single mutex: the check-and-insert into the
// visited set and the enqueue are one step, so a URL offered concurrently by
// several workers is queued exactly once. Take blocks while the queue is
// empty but work is in flight, and reports false once the frontier is
// quiescent (nothing queued, nothing in flight), closed, or the dispatch
// limit has been reached.
//
// Take also acts as a level barrier: an entry is handed out only when every
// in-flight entry has the same remaining depth. All entries of one depth are
// therefore expanded before any entry of the next is dispatched, and each
// URL is claimed at the depth of its shortest path regardless of how many
// workers run.
type Frontier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	visited sitegraph.VisitedSet
	queue   []sitegraph.Entry

	inFlight   int
	level      int // remaining depth of the in-flight entries
	dispatched int
	limit      int
	truncated  bool
	closed     bool
}

// NewFrontier creates a Frontier backed by visited.
// A positive limit caps the number of entries ever dispatched.
func NewFrontier(visited sitegraph.VisitedSet, limit int) *Frontier {
	f := &Frontier{
		visited: visited,
		limit:   limit,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Offer marks url visited and queues it with the given remaining depth.
// Returns false without side effects if depth is below 1 or the URL was
// already visited. Terminal entries are never marked visited, so a URL first
// seen at depth 0 can still be dispatched if it is later reached from higher up.
func (f *Frontier) Offer(url string, depth int) bool {
	if depth < 1 {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if !f.visited.Add(url) {
		return false
	}
	if f.limitReached() {
		f.truncated = true
		return false
	}

	f.queue = append(f.queue, sitegraph.Entry{URL: url, Depth: depth})
	f.cond.Signal()
	return true
}

// Claim marks url visited and counts it as dispatched without queueing it.
// It is the exactly-once primitive for callers that explore entries directly,
// such as depth-first recursion. Returns false if depth is below 1, the URL
// was already visited, the frontier is closed, or the limit is reached.
func (f *Frontier) Claim(url string, depth int) bool {
	if depth < 1 {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if !f.visited.Add(url) {
		return false
	}
	if f.limitReached() {
		f.truncated = true
		return false
	}
	f.dispatched++
	return true
}

// Take removes the oldest queued entry and marks it in flight.
// The caller must call Done once the entry has been processed and its
// children offered. Take blocks while the queue is empty and other entries
// are in flight, because those may still produce work, and while the oldest
// entry belongs to a different level than the entries in flight.
func (f *Frontier) Take() (sitegraph.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if f.closed {
			return sitegraph.Entry{}, false
		}
		if f.limitReached() {
			if len(f.queue) > 0 {
				f.truncated = true
			}
			return sitegraph.Entry{}, false
		}
		if len(f.queue) > 0 && (f.inFlight == 0 || f.queue[0].Depth == f.level) {
			e := f.queue[0]
			f.queue[0] = sitegraph.Entry{}
			f.queue = f.queue[1:]
			f.inFlight++
			f.level = e.Depth
			f.dispatched++
			if f.limitReached() {
				// Wake waiters so they can observe the limit.
				f.cond.Broadcast()
			}
			return e, true
		}
		if f.inFlight == 0 {
			return sitegraph.Entry{}, false
		}
		f.cond.Wait()
	}
}

// Done marks one taken entry as finished.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inFlight--
	if f.inFlight == 0 {
		// Either quiescent or the next level may start.
		f.cond.Broadcast()
	}
}

// Close stops dispatch. Blocked and future Take calls return false,
// and Offer and Claim become no-ops. Entries already in flight are unaffected.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.cond.Broadcast()
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// InFlight returns the number of taken entries not yet marked done.
func (f *Frontier) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Dispatched returns the number of entries handed out by Take or Claim.
func (f *Frontier) Dispatched() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dispatched
}

// Visited returns the number of URLs in the visited set.
func (f *Frontier) Visited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited.Len()
}

// Truncated reports whether the dispatch limit left work undone.
func (f *Frontier) Truncated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.truncated
}

func (f *Frontier) limitReached() bool {
	return f.limit > 0 && f.dispatched >= f.limit
}
