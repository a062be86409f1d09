package mock

import (
	"sync"

	"github.com/fwojciec/sitegraph"
)

var _ sitegraph.Observer = (*Observer)(nil)

// Observer is a mock implementation of sitegraph.Observer.
// If ObserveFn is nil, events are recorded and can be read with Events.
type Observer struct {
	ObserveFn func(e sitegraph.Event)

	mu     sync.Mutex
	events []sitegraph.Event
}

func (o *Observer) Observe(e sitegraph.Event) {
	if o.ObserveFn != nil {
		o.ObserveFn(e)
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

// Events returns a copy of the recorded events.
func (o *Observer) Events() []sitegraph.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]sitegraph.Event, len(o.events))
	copy(out, o.events)
	return out
}

// EventsOf returns the recorded events of type t.
func (o *Observer) EventsOf(t sitegraph.EventType) []sitegraph.Event {
	var out []sitegraph.Event
	for _, e := range o.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
