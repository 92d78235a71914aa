// Package pipeline is the scribe host: it discovers document files, hands
// each one to the stage runner and writes back changed annotations.
package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/flarebyte/scribe/internal/discover"
	"github.com/flarebyte/scribe/internal/document"
	"github.com/flarebyte/scribe/internal/logging"
)

// ErrNoSuccess is returned in keep-going mode when documents were found but
// none was processed.
var ErrNoSuccess = errors.New("keep-going: no successful records")

// Runner runs the configured stage functions over one unit.
type Runner interface {
	Run(ctx context.Context, unit any, pctx any) (any, error)
}

// Options configures a Pipeline.
type Options struct {
	Root        string
	Suffix      string
	NoGitignore bool
	Workers     int
	KeepGoing   bool
	DryRun      bool
	Params      map[string]any
}

// Pipeline processes documents under a root directory.
type Pipeline struct {
	runner Runner
	opts   Options
	log    *zap.SugaredLogger
}

// New returns a Pipeline over runner.
func New(runner Runner, opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	return &Pipeline{runner: runner, opts: opts, log: logging.Named("pipeline")}
}

// Run discovers documents and processes them. In keep-going mode the
// envelope is returned alongside ErrNoSuccess.
func (p *Pipeline) Run(ctx context.Context) (Envelope, error) {
	locators, problems, err := discover.Find(p.opts.Root, discover.Options{
		Suffix:      p.opts.Suffix,
		NoGitignore: p.opts.NoGitignore,
		KeepGoing:   p.opts.KeepGoing,
	})
	if err != nil {
		return Envelope{}, err
	}
	p.log.Debugw("discovered documents", logging.FieldCount, len(locators))
	env, err := p.Process(ctx, locators)
	if err != nil && !errors.Is(err, ErrNoSuccess) {
		return Envelope{}, err
	}
	env.Errors = append(env.Errors, discoveryErrors(problems)...)
	sortErrors(env.Errors)
	return env, err
}

// Process runs the given locators with at most Workers in flight. Records
// keep the order of locators.
func (p *Pipeline) Process(ctx context.Context, locators []string) (Envelope, error) {
	env := Envelope{Records: make([]Record, len(locators))}
	g, gctx := errgroup.WithContext(ctx)
	if p.opts.KeepGoing {
		g = &errgroup.Group{}
		gctx = ctx
	}
	g.SetLimit(p.opts.Workers)

	for i, loc := range locators {
		i, loc := i, loc
		g.Go(func() error {
			rec, err := p.ProcessOne(gctx, loc)
			if err != nil {
				if !p.opts.KeepGoing {
					return err
				}
				e := errorFor(loc, err)
				rec.Error = &e
				p.log.Warnw("document failed", logging.FieldLocator, loc, logging.FieldError, e.Message)
			}
			env.Records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Envelope{}, err
	}

	for _, r := range env.Records {
		if r.Error != nil {
			env.Errors = append(env.Errors, *r.Error)
		}
	}
	sortErrors(env.Errors)
	if p.opts.KeepGoing && len(locators) > 0 && env.Succeeded() == 0 {
		return env, ErrNoSuccess
	}
	return env, nil
}

// ProcessOne loads a document, runs the stage functions over it and saves it
// when its canonical form changed. The returned record carries the locator
// even on error.
func (p *Pipeline) ProcessOne(ctx context.Context, locator string) (Record, error) {
	rec := Record{Locator: locator}
	if err := ctx.Err(); err != nil {
		return rec, err
	}
	start := time.Now()

	unit, err := document.Load(p.opts.Root, locator)
	if err != nil {
		return rec, hostErr(StageLoad, err)
	}
	before, err := document.Marshal(unit)
	if err != nil {
		return rec, hostErr(StageLoad, err)
	}

	pctx := Context{Locator: locator, Root: p.opts.Root, Params: p.opts.Params}
	result, err := p.runner.Run(ctx, unit, pctx)
	if err != nil {
		return rec, err
	}
	rec.Result = result

	after, err := document.Marshal(unit)
	if err != nil {
		return rec, hostErr(StageSave, err)
	}
	rec.Changed = !bytes.Equal(before, after)
	if rec.Changed && !p.opts.DryRun {
		if err := document.Save(p.opts.Root, unit); err != nil {
			return rec, hostErr(StageSave, err)
		}
		rec.Saved = true
	}
	p.log.Debugw("document processed",
		logging.FieldLocator, locator,
		"changed", rec.Changed,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return rec, nil
}
