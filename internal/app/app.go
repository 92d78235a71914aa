// Package app assembles a runnable scribe from a descriptor: the function
// registry (builtins plus inline Lua), the stage runner and the host
// pipeline.
package app

import (
	"github.com/cockroachdb/errors"

	"github.com/flarebyte/scribe/internal/builtin"
	"github.com/flarebyte/scribe/internal/config"
	"github.com/flarebyte/scribe/internal/luafn"
	"github.com/flarebyte/scribe/internal/pipeline"
	"github.com/flarebyte/scribe/internal/resolver"
	"github.com/flarebyte/scribe/internal/results"
	"github.com/flarebyte/scribe/internal/stage"
)

// App is a configured scribe.
type App struct {
	Config   config.Config
	Registry *resolver.Registry
	Runner   *stage.Runner
}

// Load parses the descriptor at path and builds an App recording results to
// results.Default.
func Load(path string) (*App, error) {
	cfg, err := config.Parse(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, results.Default)
}

// NewRegistry returns the builtins plus cfg's inline functions.
func NewRegistry(cfg config.Config) (*resolver.Registry, error) {
	reg, err := builtin.NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := luafn.Register(reg, cfg.Definitions, cfg.Lua); err != nil {
		return nil, errors.Wrap(err, "register functions")
	}
	return reg, nil
}

// New builds an App from a parsed descriptor.
func New(cfg config.Config, sink results.Sink) (*App, error) {
	reg, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	runner, err := stage.New(reg, cfg.Functions,
		stage.WithResultSink(sink),
		stage.Lenient(cfg.Lenient()),
	)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Registry: reg, Runner: runner}, nil
}

// Overrides are command line settings that take precedence over the
// descriptor.
type Overrides struct {
	Root   string
	DryRun bool
}

// Pipeline returns the host pipeline for the descriptor's discovery and
// output settings.
func (a *App) Pipeline(o Overrides) *pipeline.Pipeline {
	c := a.Config
	root := c.Discovery.Root
	if o.Root != "" {
		root = o.Root
	}
	return pipeline.New(a.Runner, pipeline.Options{
		Root:        root,
		Suffix:      c.Discovery.Suffix,
		NoGitignore: c.Discovery.NoGitignore,
		Workers:     c.Workers,
		KeepGoing:   c.Errors.Mode == config.ModeKeepGoing,
		DryRun:      c.Output.DryRun || o.DryRun,
		Params:      c.Params,
	})
}
