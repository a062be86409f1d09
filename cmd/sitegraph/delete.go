package main

import (
	"fmt"

	"github.com/fwojciec/sitegraph"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return sitegraph.Errorf(sitegraph.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Runs.DeleteRun(deps.Ctx, c.ID); err != nil {
		if sitegraph.ErrorCode(err) == sitegraph.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'sitegraph runs' to see stored runs.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitegraph.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.ID)
	return nil
}
