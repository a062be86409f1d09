package sitegraph

import "time"

// EventType identifies what happened during a traversal.
type EventType int

const (
	EventDispatched EventType = iota
	EventFetchSucceeded
	EventFetchFailed
	EventExtractFailed
	EventCompleted
)

// String returns a lowercase name for the event type.
func (t EventType) String() string {
	switch t {
	case EventDispatched:
		return "dispatched"
	case EventFetchSucceeded:
		return "fetch_succeeded"
	case EventFetchFailed:
		return "fetch_failed"
	case EventExtractFailed:
		return "extract_failed"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event is a structured notification emitted by the traversal engine.
type Event struct {
	Type  EventType
	URL   string
	Depth int

	// Status is set for fetch outcomes that carried a response.
	Status int
	// Links is the number of outbound links recorded for the page.
	Links int
	// Duration is the fetch duration, or the whole run for EventCompleted.
	Duration time.Duration
	// Pages and Failed summarize the run on EventCompleted.
	Pages  int
	Failed int
	Err    error
}

// Observer receives traversal events.
// Implementations must be safe for concurrent use.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

// Observe forwards e to every non-nil observer.
func (m MultiObserver) Observe(e Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(e)
		}
	}
}
