package crawl_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/sitegraph"
	"github.com/fwojciec/sitegraph/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrontier(limit int) *crawl.Frontier {
	return crawl.NewFrontier(crawl.NewVisitedSet(), limit)
}

func TestFrontier_Offer_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := newFrontier(0)

	assert.True(t, f.Offer("https://x.test/a", 2), "first offer should succeed")
	assert.False(t, f.Offer("https://x.test/a", 2), "duplicate URL should be rejected")
	assert.False(t, f.Offer("https://x.test/a", 5), "duplicate URL should be rejected at any depth")
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Offer_ignores_terminal_entries(t *testing.T) {
	t.Parallel()

	f := newFrontier(0)

	assert.False(t, f.Offer("https://x.test/d", 0))
	assert.False(t, f.Offer("https://x.test/d", -1))
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, 0, f.Visited(), "terminal entries must not be marked visited")

	// Reached again from higher up, the URL is still eligible.
	assert.True(t, f.Offer("https://x.test/d", 1))
}

func TestFrontier_Take_returns_entries_in_FIFO_order(t *testing.T) {
	t.Parallel()

	f := newFrontier(0)
	f.Offer("https://x.test/1", 3)
	f.Offer("https://x.test/2", 2)
	f.Offer("https://x.test/3", 1)

	for _, want := range []sitegraph.Entry{
		{URL: "https://x.test/1", Depth: 3},
		{URL: "https://x.test/2", Depth: 2},
		{URL: "https://x.test/3", Depth: 1},
	} {
		e, ok := f.Take()
		require.True(t, ok)
		assert.Equal(t, want, e)
		f.Done()
	}

	_, ok := f.Take()
	assert.False(t, ok, "take on a quiescent frontier should return false")
}

func TestFrontier_Take_waits_for_in_flight_work(t *testing.T) {
	t.Parallel()

	f := newFrontier(0)
	f.Offer("https://x.test/", 2)

	root, ok := f.Take()
	require.True(t, ok)
	assert.Equal(t, 1, f.InFlight())

	got := make(chan sitegraph.Entry, 1)
	go func() {
		// Queue is momentarily empty but the root is still in flight.
		e, ok := f.Take()
		if ok {
			got <- e
		}
		close(got)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-got:
		t.Fatal("take returned while work was in flight and queue was empty")
	default:
	}

	f.Offer("https://x.test/child", root.Depth-1)
	f.Done()

	select {
	case e, ok := <-got:
		require.True(t, ok)
		assert.Equal(t, "https://x.test/child", e.URL)
		assert.Equal(t, 1, e.Depth)
	case <-time.After(time.Second):
		t.Fatal("blocked take was not woken by offer")
	}
}

func TestFrontier_Take_holds_next_level_until_current_drains(t *testing.T) {
	t.Parallel()

	f := newFrontier(0)
	f.Offer("https://x.test/a", 3)
	f.Offer("https://x.test/b", 3)

	a, ok := f.Take()
	require.True(t, ok)
	b, ok := f.Take()
	require.True(t, ok)

	// "a" finishes first and offers its child while "b" is still in flight.
	f.Offer("https://x.test/a1", a.Depth-1)
	f.Done()

	got := make(chan sitegraph.Entry, 1)
	go func() {
		e, ok := f.Take()
		if ok {
			got <- e
		}
		close(got)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-got:
		t.Fatal("next level dispatched while the current level was in flight")
	default:
	}

	f.Offer("https://x.test/b1", b.Depth-1)
	f.Done()

	select {
	case e, ok := <-got:
		require.True(t, ok)
		assert.Equal(t, sitegraph.Entry{URL: "https://x.test/a1", Depth: 2}, e)
	case <-time.After(time.Second):
		t.Fatal("next level was not released once the current level drained")
	}

	// The rest of the level may run alongside it.
	e, ok := f.Take()
	require.True(t, ok)
	assert.Equal(t, "https://x.test/b1", e.URL)
}

func TestFrontier_Take_returns_false_at_quiescence(t *testing.T) {
	t.Parallel()

	f := newFrontier(0)
	f.Offer("https://x.test/", 1)

	_, ok := f.Take()
	require.True(t, ok)

	done := make(chan bool, 1)
	go func() {
		_, ok := f.Take()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	f.Done()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("blocked take was not released at quiescence")
	}
}

func TestFrontier_Close_releases_blocked_takers(t *testing.T) {
	t.Parallel()

	f := newFrontier(0)
	f.Offer("https://x.test/", 1)
	_, ok := f.Take()
	require.True(t, ok)

	done := make(chan bool, 1)
	go func() {
		_, ok := f.Take()
		done <- ok
	}()

	f.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("blocked take was not released by close")
	}
	assert.False(t, f.Offer("https://x.test/late", 3), "offer after close should be a no-op")
}

func TestFrontier_limit_caps_dispatch(t *testing.T) {
	t.Parallel()

	f := newFrontier(2)
	f.Offer("https://x.test/1", 1)
	f.Offer("https://x.test/2", 1)
	f.Offer("https://x.test/3", 1)

	_, ok := f.Take()
	require.True(t, ok)
	_, ok = f.Take()
	require.True(t, ok)
	_, ok = f.Take()
	assert.False(t, ok, "third take should exceed the limit")

	assert.Equal(t, 2, f.Dispatched())
	assert.True(t, f.Truncated())
}

func TestFrontier_Truncated_is_false_when_limit_not_hit(t *testing.T) {
	t.Parallel()

	f := newFrontier(5)
	f.Offer("https://x.test/1", 1)
	_, ok := f.Take()
	require.True(t, ok)
	f.Done()
	_, ok = f.Take()
	require.False(t, ok)

	assert.False(t, f.Truncated())
}

func TestFrontier_Claim(t *testing.T) {
	t.Parallel()

	t.Run("claims each URL once", func(t *testing.T) {
		t.Parallel()

		f := newFrontier(0)
		assert.True(t, f.Claim("https://x.test/", 1))
		assert.False(t, f.Claim("https://x.test/", 1))
		assert.Equal(t, 1, f.Dispatched())
		assert.Equal(t, 0, f.Len(), "claimed URLs are not queued")
	})

	t.Run("rejects depth zero", func(t *testing.T) {
		t.Parallel()

		f := newFrontier(0)
		assert.False(t, f.Claim("https://x.test/", 0))
		assert.Equal(t, 0, f.Visited())
	})

	t.Run("respects the limit", func(t *testing.T) {
		t.Parallel()

		f := newFrontier(1)
		assert.True(t, f.Claim("https://x.test/a", 1))
		assert.False(t, f.Claim("https://x.test/b", 1))
		assert.True(t, f.Truncated())
	})
}

func TestFrontier_concurrent_offers_queue_URL_once(t *testing.T) {
	t.Parallel()

	f := newFrontier(0)

	const numGoroutines = 50
	var accepted atomic.Int32
	var start sync.WaitGroup
	start.Add(1)

	var wg sync.WaitGroup
	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()
			if f.Offer("https://x.test/contended", 3) {
				accepted.Add(1)
			}
		}()
	}
	start.Done()
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := newFrontier(0)

	const numGoroutines = 10
	const numOpsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Offer(fmt.Sprintf("https://x.test/%d/%d", id, j), 1)
			}
		}(i)
	}

	var taken atomic.Int32
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				if _, ok := f.Take(); ok {
					taken.Add(1)
					f.Done()
				}
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, numGoroutines*numOpsPerGoroutine, f.Visited())
	assert.Equal(t, numGoroutines*numOpsPerGoroutine, int(taken.Load())+f.Len())
}
