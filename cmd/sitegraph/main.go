package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitegraph"
	"github.com/fwojciec/sitegraph/bloom"
	"github.com/fwojciec/sitegraph/crawl"
	"github.com/fwojciec/sitegraph/etree"
	"github.com/fwojciec/sitegraph/fs"
	"github.com/fwojciec/sitegraph/goquery"
	sghttp "github.com/fwojciec/sitegraph/http"
	"github.com/fwojciec/sitegraph/prometheus"
	sgslog "github.com/fwojciec/sitegraph/slog"
	"github.com/fwojciec/sitegraph/sqlite"
	sgyaml "github.com/fwojciec/sitegraph/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	// Overridden by --db.
	DBPath string

	// ConfigPaths are YAML files consulted for flag defaults.
	ConfigPaths []string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService sitegraph.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		ConfigPaths: []string{defaultConfigPath()},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		NewWriter: newWriter,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitegraph"),
		kong.Description("Map the link structure of a website."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(sgyaml.Loader, m.ConfigPaths...),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitegraph --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = kongCtx.Command()

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if !(cmd == "crawl <url>" && cli.Crawl.NoSave) {
		dbPath := m.DBPath
		if cli.DB != "" {
			dbPath = cli.DB
		}
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SITEGRAPH_DB or pass --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()

		m.RunService = sqlite.NewRunService(m.DB)
		deps.Runs = m.RunService
	}

	if cmd == "crawl <url>" {
		shutdown, err := m.wireCrawl(deps, &cli.Crawl)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", sitegraph.ErrorMessage(err))
			return err
		}
		defer shutdown()
	}

	return kongCtx.Run(deps)
}

// wireCrawl builds the crawler for the crawl command. The returned function
// releases anything started for the run.
func (m *Main) wireCrawl(deps *Dependencies, c *CrawlCmd) (func(), error) {
	logger := deps.Logger

	filter, err := sitegraph.CompileURLFilter(c.Include, c.Exclude)
	if err != nil {
		return nil, err
	}

	opts := []sghttp.Option{sghttp.WithTimeout(c.FetchTimeout)}
	if c.UserAgent != "" {
		opts = append(opts, sghttp.WithUserAgent(c.UserAgent))
	}
	var fetcher sitegraph.Fetcher = sghttp.NewFetcher(opts...)
	if c.Retries > 0 {
		delays := sghttp.DefaultRetryDelays()
		for len(delays) < c.Retries {
			delays = append(delays, delays[len(delays)-1]*2)
		}
		fetcher = sghttp.NewRetryFetcher(fetcher, delays[:c.Retries], func(url string, attempt int, err error) {
			logger.Warn("retrying fetch", "url", url, "attempt", attempt, "err", err)
		})
	}
	fetcher = sgslog.NewLoggingFetcher(fetcher, logger)

	observers := sitegraph.MultiObserver{sgslog.NewObserver(logger)}
	shutdown := func() {}

	if c.MetricsFile != "" || c.MetricsAddr != "" {
		metrics := prometheus.NewObserver()
		observers = append(observers, metrics)

		if c.MetricsFile != "" {
			path := c.MetricsFile
			deps.Metrics = func() error { return metrics.WriteTextfile(path) }
		}

		if c.MetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			srv := &http.Server{Addr: c.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server failed", "addr", c.MetricsAddr, "err", err)
				}
			}()
			logger.Info("serving metrics", "addr", c.MetricsAddr)
			shutdown = func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}
		}
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:   fetcher,
		Extractor: goquery.NewExtractor(goquery.WithSelector(c.Selector), goquery.WithFilter(filter)),
		Observer:  observers,
	}
	if c.Bloom {
		size := c.BloomSize
		deps.Crawler.NewVisitedSet = func() sitegraph.VisitedSet {
			return bloom.NewFilter(size, bloom.DefaultFalsePositiveRate)
		}
	}

	return shutdown, nil
}

// newWriter returns the exporter used by crawl and export: the JSON graph
// plus its GraphML rendering.
func newWriter(dir string) sitegraph.GraphWriter {
	return fs.NewWriter(dir,
		fs.File{Name: fs.JSONFile, Encoder: fs.JSONEncoder{}},
		fs.File{Name: etree.GraphMLFile, Encoder: etree.NewEncoder()},
	)
}

func defaultDBPath() string {
	if path := os.Getenv("SITEGRAPH_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitegraph.db"
	}
	dir := filepath.Join(home, ".sitegraph")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "sitegraph.db")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitegraph.yaml"
	}
	return filepath.Join(home, ".sitegraph", "config.yaml")
}
