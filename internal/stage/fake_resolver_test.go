package stage

import (
	"context"

	"github.com/flarebyte/scribe/internal/resolver"
)

// fakeResolver counts resolutions and lets tests script each stage.
type fakeResolver struct {
	extErr, annErr, postErr error

	onExtract  func(unit, pctx any) (any, error)
	onAnnotate func(input any) (any, error)
	onPost     func(unit, result, input any) error

	resolved  map[resolver.Role]int
	postCalls int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		onExtract:  func(unit, pctx any) (any, error) { return unit, nil },
		onAnnotate: func(input any) (any, error) { return input, nil },
		onPost:     func(unit, result, input any) error { return nil },
		resolved:   map[resolver.Role]int{},
	}
}

func (f *fakeResolver) ResolveExtractor(string) (resolver.Extractor, error) {
	f.resolved[resolver.RoleExtractor]++
	if f.extErr != nil {
		return nil, f.extErr
	}
	return resolver.ExtractorFunc(func(_ context.Context, unit, pctx any) (any, error) {
		return f.onExtract(unit, pctx)
	}), nil
}

func (f *fakeResolver) ResolveAnnotator(string) (resolver.Annotator, error) {
	f.resolved[resolver.RoleAnnotator]++
	if f.annErr != nil {
		return nil, f.annErr
	}
	return resolver.AnnotatorFunc(func(_ context.Context, input any) (any, error) {
		return f.onAnnotate(input)
	}), nil
}

func (f *fakeResolver) ResolvePostProcessor(string) (resolver.PostProcessor, error) {
	f.resolved[resolver.RolePostProcessor]++
	if f.postErr != nil {
		return nil, f.postErr
	}
	return resolver.PostProcessorFunc(func(_ context.Context, unit, result, input any) error {
		f.postCalls++
		return f.onPost(unit, result, input)
	}), nil
}

// Validate accepts everything; resolution failures are scripted per run.
func (f *fakeResolver) Validate(resolver.Identifiers, bool) ([]string, error) {
	return nil, nil
}
