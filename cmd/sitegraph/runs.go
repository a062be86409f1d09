package main

import (
	"fmt"

	"github.com/fwojciec/sitegraph"
)

// maxURLWidth keeps one run per terminal line.
const maxURLWidth = 60

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := sitegraph.RunFilter{Limit: c.Limit}
	if c.Domain != "" {
		filter.Domain = &c.Domain
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitegraph.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'sitegraph crawl' to create one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  depth=%d  pages=%d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Strategy, r.MaxDepth, r.PageCount, shortenURL(r.StartURL, maxURLWidth))
	}

	return nil
}

// shortenURL keeps the tail of long URLs, where pages differ most.
func shortenURL(url string, width int) string {
	if len(url) <= width {
		return url
	}
	return "..." + url[len(url)-width+3:]
}
