// Package stage runs the configured extract, annotate and post-process
// functions over one unit of work.
package stage

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/flarebyte/scribe/internal/logging"
	"github.com/flarebyte/scribe/internal/resolver"
	"github.com/flarebyte/scribe/internal/results"
)

// Resolver turns identifiers into fresh callables and checks a configuration
// before it is used.
type Resolver interface {
	ResolveExtractor(id string) (resolver.Extractor, error)
	ResolveAnnotator(id string) (resolver.Annotator, error)
	ResolvePostProcessor(id string) (resolver.PostProcessor, error)
	Validate(ids resolver.Identifiers, lenient bool) ([]string, error)
}

// Runner runs extract, annotate and post-process for one unit at a time.
type Runner struct {
	res     Resolver
	ids     resolver.Identifiers
	sink    results.Sink
	log     *zap.SugaredLogger
	lenient bool
}

type Option func(*Runner)

// WithResultSink replaces the process-wide result registry.
func WithResultSink(s results.Sink) Option {
	return func(r *Runner) { r.sink = s }
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Runner) { r.log = l }
}

// Lenient lets unknown extractor or post-processor identifiers pass
// validation; those roles are then absent on every run.
func Lenient(on bool) Option {
	return func(r *Runner) { r.lenient = on }
}

// New validates ids against res and returns a runner bound to them.
func New(res Resolver, ids resolver.Identifiers, opts ...Option) (*Runner, error) {
	r := &Runner{res: res, ids: ids, sink: results.Default}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logging.Named("stage")
	}
	warnings, err := res.Validate(ids, r.lenient)
	if err != nil {
		return nil, errors.Wrap(err, "validate stage functions")
	}
	for _, w := range warnings {
		r.log.Warn(w)
	}
	return r, nil
}

// Identifiers returns the configured identifiers.
func (r *Runner) Identifiers() resolver.Identifiers { return r.ids }

// Run processes one unit. The annotation result is returned and recorded in
// the result sink. The post-processor only runs when an extractor ran, and
// receives (unit, result, extracted input).
func (r *Runner) Run(ctx context.Context, unit any, pctx any) (any, error) {
	ext := resolveOptional(r.ids.Extractor, r.res.ResolveExtractor)
	post := resolveOptional(r.ids.PostProcessor, r.res.ResolvePostProcessor)
	if x, ok := ext.Get(); ok {
		defer release(x)
	}
	if p, ok := post.Get(); ok {
		defer release(p)
	}
	r.warnAbsent(resolver.RoleExtractor, r.ids.Extractor, ext.Cause())
	r.warnAbsent(resolver.RolePostProcessor, r.ids.PostProcessor, post.Cause())

	ann, err := r.res.ResolveAnnotator(r.ids.Annotator)
	if err != nil {
		return nil, newError(StageResolve, resolver.RoleAnnotator, err)
	}
	defer release(ann)

	var input, result any
	if x, ok := ext.Get(); ok {
		input, err = x.Extract(ctx, unit, pctx)
		if err != nil {
			return nil, newError(StageExtract, resolver.RoleExtractor, err)
		}
		result, err = ann.Annotate(ctx, input)
	} else {
		result, err = ann.Annotate(ctx, unit)
	}
	if err != nil {
		return nil, newError(StageAnnotate, resolver.RoleAnnotator, err)
	}

	r.sink.Put(results.Label, result)

	if !ext.Ok() {
		return result, nil
	}
	if p, ok := post.Get(); ok {
		if err := p.Post(ctx, unit, result, input); err != nil {
			return nil, newError(StagePost, resolver.RolePostProcessor, err)
		}
	}
	return result, nil
}

func (r *Runner) warnAbsent(role resolver.Role, id string, cause error) {
	if cause == nil {
		return
	}
	r.log.Warnw("optional stage absent",
		logging.FieldRole, string(role),
		logging.FieldFunction, id,
		logging.FieldError, cause.Error())
}

// release closes callables that hold resources, such as Lua interpreters.
func release(v any) {
	if c, ok := v.(io.Closer); ok {
		_ = c.Close()
	}
}
