package sitegraph

// Entry is a unit of work awaiting exploration: a URL and the depth left
// below it. Entries with Depth 0 are terminal and never dispatched.
type Entry struct {
	URL   string
	Depth int
}

// VisitedSet records URLs whose fetch has been dispatched.
// Implementations need not be safe for concurrent use; the frontier
// serializes access.
type VisitedSet interface {
	// Add marks url visited.
	// Returns false if url was already present.
	Add(url string) bool

	// Len returns the number of URLs in the set.
	Len() int
}
