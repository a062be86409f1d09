package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitegraph"
	"github.com/fwojciec/sitegraph/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Runs    sitegraph.RunService
	Crawler *crawl.Crawler

	// NewWriter returns the exporter for an output directory.
	NewWriter func(dir string) sitegraph.GraphWriter

	// Metrics, if set, is called once a crawl has finished.
	Metrics func() error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"Load flag values from a YAML file"`
	DB      string          `name:"db" env:"SITEGRAPH_DB" help:"Run history database path"`
	Verbose bool            `short:"v" help:"Log every fetch"`

	Crawl  CrawlCmd  `cmd:"" help:"Map a site and write its link graph"`
	Runs   RunsCmd   `cmd:"" help:"List stored crawl runs"`
	Export ExportCmd `cmd:"" help:"Write the graph of a stored run"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored run"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL          string        `arg:"" help:"Start URL"`
	Depth        int           `short:"d" default:"3" help:"Maximum depth, counting the start page as depth 1"`
	Domain       string        `help:"Domain to stay within (default: start URL host without www.)"`
	Strategy     string        `short:"s" default:"bfs" enum:"bfs,dfs" help:"Traversal order (bfs, dfs)"`
	Workers      int           `short:"w" default:"10" help:"Concurrent fetches for bfs"`
	MaxPages     int           `help:"Stop after this many fetches (0 = unlimited)"`
	FetchTimeout time.Duration `default:"10s" help:"Timeout per fetch"`
	Timeout      time.Duration `help:"Timeout for the whole crawl (0 = none)"`
	Include      []string      `short:"i" help:"Only follow links matching regex (repeatable)"`
	Exclude      []string      `short:"x" help:"Never follow links matching regex (repeatable)"`
	Selector     string        `default:"a[href]" help:"CSS selector for followed anchors"`
	Output       string        `short:"o" help:"Output directory (default: <domain>_depth=<depth>)"`
	Bloom        bool          `help:"Use an approximate visited set for very large sites"`
	BloomSize    uint          `default:"1000000" help:"Expected number of URLs for --bloom"`
	Retries      int           `help:"Retries for transient fetch failures"`
	UserAgent    string        `help:"User-Agent header"`
	MetricsFile  string        `help:"Write Prometheus metrics to this textfile when done"`
	MetricsAddr  string        `help:"Serve Prometheus metrics on this address while crawling"`
	NoSave       bool          `help:"Do not record the run in the database"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Domain string `help:"Only show runs for this domain"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of runs to show"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	ID     string `arg:"" help:"Run ID"`
	Output string `short:"o" help:"Output directory (default: <domain>_depth=<depth>)"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Run ID"`
	Force bool   `help:"Confirm deletion"`
}
