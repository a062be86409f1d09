package sitegraph

import (
	"context"
	"io"
	"time"
)

// Run is a stored traversal: its configuration and the resulting graph size.
type Run struct {
	ID        string    `json:"id"`
	StartURL  string    `json:"startUrl"`
	Domain    string    `json:"domain"`
	Strategy  Strategy  `json:"strategy"`
	MaxDepth  int       `json:"maxDepth"`
	PageCount int       `json:"pageCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.StartURL == "" {
		return Errorf(EINVALID, "run start URL required")
	}
	if r.Domain == "" {
		return Errorf(EINVALID, "run domain required")
	}
	return nil
}

// RunService represents a service for storing traversal results.
type RunService interface {
	// CreateRun stores a run together with its graph.
	// The run's ID, PageCount and CreatedAt are set on success.
	CreateRun(ctx context.Context, run *Run, graph *Graph) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindGraph retrieves the graph stored for a run.
	// Returns ENOTFOUND if the run does not exist.
	FindGraph(ctx context.Context, runID string) (*Graph, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// DeleteRun permanently removes a run and its pages.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Domain *string `json:"domain"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// GraphWriter exports a finished graph, e.g. to files on disk.
type GraphWriter interface {
	WriteGraph(ctx context.Context, graph *Graph) error
}

// GraphEncoder serializes a graph into a single document format.
type GraphEncoder interface {
	EncodeGraph(w io.Writer, graph *Graph) error
}
