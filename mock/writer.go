package mock

import (
	"context"

	"github.com/fwojciec/sitegraph"
)

var _ sitegraph.GraphWriter = (*GraphWriter)(nil)

// GraphWriter is a mock implementation of sitegraph.GraphWriter.
type GraphWriter struct {
	WriteGraphFn func(ctx context.Context, graph *sitegraph.Graph) error
}

func (w *GraphWriter) WriteGraph(ctx context.Context, graph *sitegraph.Graph) error {
	return w.WriteGraphFn(ctx, graph)
}
