package sitegraph_test

import (
	"testing"

	"github.com/fwojciec/sitegraph"
	"github.com/stretchr/testify/assert"
)

func TestMultiObserver(t *testing.T) {
	t.Parallel()

	var first, second []sitegraph.EventType
	m := sitegraph.MultiObserver{
		sitegraph.ObserverFunc(func(e sitegraph.Event) { first = append(first, e.Type) }),
		nil,
		sitegraph.ObserverFunc(func(e sitegraph.Event) { second = append(second, e.Type) }),
	}

	m.Observe(sitegraph.Event{Type: sitegraph.EventDispatched})
	m.Observe(sitegraph.Event{Type: sitegraph.EventCompleted})

	want := []sitegraph.EventType{sitegraph.EventDispatched, sitegraph.EventCompleted}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestEventType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dispatched", sitegraph.EventDispatched.String())
	assert.Equal(t, "fetch_succeeded", sitegraph.EventFetchSucceeded.String())
	assert.Equal(t, "fetch_failed", sitegraph.EventFetchFailed.String())
	assert.Equal(t, "extract_failed", sitegraph.EventExtractFailed.String())
	assert.Equal(t, "completed", sitegraph.EventCompleted.String())
	assert.Equal(t, "unknown", sitegraph.EventType(99).String())
}
