package main

import (
	"fmt"

	"github.com/fwojciec/sitegraph"
	"github.com/fwojciec/sitegraph/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		if sitegraph.ErrorCode(err) == sitegraph.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'sitegraph runs' to see stored runs.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitegraph.ErrorMessage(err))
		}
		return err
	}

	graph, err := deps.Runs.FindGraph(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitegraph.ErrorMessage(err))
		return err
	}

	dir := c.Output
	if dir == "" {
		dir = fs.DirName(run.Domain, run.MaxDepth)
	}
	if err := deps.NewWriter(dir).WriteGraph(deps.Ctx, graph); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write output: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d pages to %s\n", graph.Len(), dir)
	return nil
}
