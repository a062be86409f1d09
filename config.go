package sitegraph

import (
	"net/url"
	"strings"
	"time"
)

// Strategy selects the traversal order.
type Strategy string

const (
	StrategyBFS Strategy = "bfs"
	StrategyDFS Strategy = "dfs"
)

// ParseStrategy parses a strategy name, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyBFS:
		return StrategyBFS, nil
	case StrategyDFS:
		return StrategyDFS, nil
	}
	return "", Errorf(EINVALID, "unknown strategy %q (want bfs or dfs)", s)
}

// Config describes a single traversal run.
type Config struct {
	StartURL string
	// MaxDepth is the depth the start URL is offered with.
	MaxDepth int
	// Domain is suffix-matched against link hosts.
	Domain   string
	Strategy Strategy
	// Workers is the BFS worker pool size. Ignored by DFS.
	Workers int

	// MaxPages caps the number of dispatched fetches. Zero means no cap.
	MaxPages int
	// FetchTimeout bounds each fetch. Zero means no per-fetch bound.
	FetchTimeout time.Duration
	// Timeout bounds the whole run. Zero means no deadline.
	Timeout time.Duration
}

// Validate returns an error if the config cannot start a traversal.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return Errorf(EINVALID, "start URL required")
	}
	u, err := url.Parse(c.StartURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Errorf(EINVALID, "start URL must be an absolute http(s) URL: %q", c.StartURL)
	}
	if c.MaxDepth < 1 {
		return Errorf(EINVALID, "max depth must be positive, got %d", c.MaxDepth)
	}
	if c.Domain == "" {
		return Errorf(EINVALID, "domain required")
	}
	if !HostInDomain(u.Hostname(), c.Domain) {
		return Errorf(EINVALID, "start URL host %q is outside domain %q", u.Hostname(), c.Domain)
	}
	switch c.Strategy {
	case StrategyBFS:
		if c.Workers < 1 {
			return Errorf(EINVALID, "workers must be positive, got %d", c.Workers)
		}
	case StrategyDFS:
	default:
		return Errorf(EINVALID, "unknown strategy %q", c.Strategy)
	}
	if c.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative")
	}
	if c.FetchTimeout < 0 || c.Timeout < 0 {
		return Errorf(EINVALID, "timeouts must not be negative")
	}
	return nil
}

// HostInDomain reports whether host equals domain or is a subdomain of it.
// Comparison is case-insensitive and ignores a trailing dot.
func HostInDomain(host, domain string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	domain = strings.TrimSuffix(strings.ToLower(domain), ".")
	if host == "" || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
