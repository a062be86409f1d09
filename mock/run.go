package mock

import (
	"context"

	"github.com/fwojciec/sitegraph"
)

var _ sitegraph.RunService = (*RunService)(nil)

// RunService is a mock implementation of sitegraph.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *sitegraph.Run, graph *sitegraph.Graph) error
	FindRunByIDFn func(ctx context.Context, id string) (*sitegraph.Run, error)
	FindGraphFn   func(ctx context.Context, runID string) (*sitegraph.Graph, error)
	FindRunsFn    func(ctx context.Context, filter sitegraph.RunFilter) ([]*sitegraph.Run, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *sitegraph.Run, graph *sitegraph.Graph) error {
	return s.CreateRunFn(ctx, run, graph)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*sitegraph.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindGraph(ctx context.Context, runID string) (*sitegraph.Graph, error) {
	return s.FindGraphFn(ctx, runID)
}

func (s *RunService) FindRuns(ctx context.Context, filter sitegraph.RunFilter) ([]*sitegraph.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
