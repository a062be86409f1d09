// Package yaml provides a YAML configuration file resolver for kong
// built on gopkg.in/yaml.v3.
//
// Keys are flag names. Values at the top level apply to every command;
// a mapping named after a command overrides them for that command:
//
//	depth: 3
//	user-agent: my-crawler/1.0
//	crawl:
//	  strategy: dfs
//	  exclude: ["/tag/", "/page/[0-9]+"]
//
// Underscores may be used in place of hyphens. Flags given on the command
// line always take precedence over the file.
package yaml

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// Ensure Resolver implements kong.Resolver.
var _ kong.Resolver = (*Resolver)(nil)

// Resolver resolves flag values from a parsed YAML document.
type Resolver struct {
	values map[string]any
}

// Loader reads a YAML configuration. It matches kong.ConfigurationLoader.
func Loader(r io.Reader) (kong.Resolver, error) {
	return Load(r)
}

// Load parses a YAML configuration from r.
// An empty document yields a resolver that resolves nothing.
func Load(r io.Reader) (*Resolver, error) {
	values := make(map[string]any)
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return &Resolver{values: values}, nil
}

// Validate is a no-op; unknown keys are ignored so one file can serve
// several versions of the CLI.
func (r *Resolver) Validate(app *kong.Application) error {
	return nil
}

// Resolve returns the configured value for flag, or nil if there is none.
func (r *Resolver) Resolve(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := r.values[parent.Command.Name].(map[string]any); ok {
			if v, ok := lookup(section, flag.Name); ok {
				return v, nil
			}
		}
	}
	v, _ := lookup(r.values, flag.Name)
	return v, nil
}

func lookup(values map[string]any, name string) (any, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	v, ok := values[strings.ReplaceAll(name, "-", "_")]
	return v, ok
}
