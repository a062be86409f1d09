package slog

import (
	"log/slog"

	"github.com/fwojciec/sitegraph"
)

// Ensure Observer implements sitegraph.Observer.
var _ sitegraph.Observer = (*Observer)(nil)

// Observer logs traversal events.
// Dispatch and success are logged at Debug, failures at Warn, and the run
// summary at Info.
type Observer struct {
	logger *slog.Logger
}

// NewObserver creates a new Observer.
func NewObserver(logger *slog.Logger) *Observer {
	return &Observer{logger: logger}
}

// Observe logs e.
func (o *Observer) Observe(e sitegraph.Event) {
	switch e.Type {
	case sitegraph.EventDispatched:
		o.logger.Debug("dispatch", "url", e.URL, "depth", e.Depth)
	case sitegraph.EventFetchSucceeded:
		o.logger.Debug("page",
			"url", e.URL,
			"depth", e.Depth,
			"status", e.Status,
			"links", e.Links,
			"duration", e.Duration,
		)
	case sitegraph.EventFetchFailed:
		attrs := []any{"url", e.URL, "depth", e.Depth}
		if e.Status != 0 {
			attrs = append(attrs, "status", e.Status)
		}
		attrs = append(attrs, "err", e.Err)
		o.logger.Warn("fetch failed", attrs...)
	case sitegraph.EventExtractFailed:
		o.logger.Warn("extract failed", "url", e.URL, "err", e.Err)
	case sitegraph.EventCompleted:
		attrs := []any{
			"url", e.URL,
			"pages", e.Pages,
			"failed", e.Failed,
			"duration", e.Duration,
		}
		if e.Err != nil {
			attrs = append(attrs, "err", e.Err)
		}
		o.logger.Info("crawl complete", attrs...)
	}
}
