// Package builtin registers the stage functions that ship with scribe.
package builtin

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/flarebyte/scribe/internal/document"
	"github.com/flarebyte/scribe/internal/resolver"
)

const source = "builtin"

// MetaAnnotationKey is where write-back-meta stores the result.
const MetaAnnotationKey = "annotation"

// Register adds every builtin function to reg.
func Register(reg *resolver.Registry) error {
	extractors := []struct {
		d  resolver.Descriptor
		fn resolver.ExtractorFunc
	}{
		{resolver.Descriptor{ID: "identity-extractor", Summary: "document text",
			Sig: resolver.Signature{In: resolver.KindDocument, Out: resolver.KindText}}, extractText},
		{resolver.Descriptor{ID: "meta-extractor", Summary: "document metadata",
			Sig: resolver.Signature{In: resolver.KindDocument, Out: resolver.KindMap}}, extractMeta},
	}
	for _, e := range extractors {
		fn := e.fn
		e.d.Source = source
		if err := reg.RegisterExtractor(e.d, func() (resolver.Extractor, error) { return fn, nil }); err != nil {
			return err
		}
	}

	annotators := []struct {
		d  resolver.Descriptor
		fn resolver.AnnotatorFunc
	}{
		{resolver.Descriptor{ID: "uppercase-annotator", Summary: "text upper-cased",
			Sig: resolver.Signature{In: resolver.KindText, Out: resolver.KindText}}, textAnnotator(strings.ToUpper)},
		{resolver.Descriptor{ID: "lowercase-annotator", Summary: "text lower-cased",
			Sig: resolver.Signature{In: resolver.KindText, Out: resolver.KindText}}, textAnnotator(strings.ToLower)},
		{resolver.Descriptor{ID: "count-length-annotator", Summary: "character count of text or document text",
			Sig: resolver.Signature{In: resolver.KindAny, Out: resolver.KindNumber}}, countLength},
		{resolver.Descriptor{ID: "word-count-annotator", Summary: "whitespace separated word count",
			Sig: resolver.Signature{In: resolver.KindAny, Out: resolver.KindNumber}}, countWords},
	}
	for _, a := range annotators {
		fn := a.fn
		a.d.Source = source
		if err := reg.RegisterAnnotator(a.d, func() (resolver.Annotator, error) { return fn, nil }); err != nil {
			return err
		}
	}

	posts := []struct {
		d  resolver.Descriptor
		fn resolver.PostProcessorFunc
	}{
		{resolver.Descriptor{ID: "write-back", Summary: "set document annotation to the result"}, writeBack},
		{resolver.Descriptor{ID: "write-back-meta", Summary: "set meta." + MetaAnnotationKey + " to the result"}, writeBackMeta},
	}
	for _, p := range posts {
		fn := p.fn
		p.d.Source = source
		if err := reg.RegisterPostProcessor(p.d, func() (resolver.PostProcessor, error) { return fn, nil }); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding only the builtins.
func NewRegistry() (*resolver.Registry, error) {
	reg := resolver.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func unitOf(v any) (*document.Unit, error) {
	u, ok := v.(*document.Unit)
	if !ok || u == nil {
		return nil, errors.Newf("expected document, got %T", v)
	}
	return u, nil
}

func textOf(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case *document.Unit:
		if x != nil {
			return x.Text, nil
		}
	}
	return "", errors.Newf("expected text, got %T", v)
}

func extractText(_ context.Context, unit any, _ any) (any, error) {
	u, err := unitOf(unit)
	if err != nil {
		return nil, err
	}
	return u.Text, nil
}

func extractMeta(_ context.Context, unit any, _ any) (any, error) {
	u, err := unitOf(unit)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(u.Meta))
	for k, v := range u.Meta {
		out[k] = v
	}
	return out, nil
}

func textAnnotator(f func(string) string) resolver.AnnotatorFunc {
	return func(_ context.Context, input any) (any, error) {
		s, ok := input.(string)
		if !ok {
			return nil, errors.Newf("expected text, got %T", input)
		}
		return f(s), nil
	}
}

func countLength(_ context.Context, input any) (any, error) {
	s, err := textOf(input)
	if err != nil {
		return nil, err
	}
	return utf8.RuneCountInString(s), nil
}

func countWords(_ context.Context, input any) (any, error) {
	s, err := textOf(input)
	if err != nil {
		return nil, err
	}
	return len(strings.Fields(s)), nil
}

func writeBack(_ context.Context, unit any, result any, _ any) error {
	u, err := unitOf(unit)
	if err != nil {
		return err
	}
	u.Annotation = result
	return nil
}

func writeBackMeta(_ context.Context, unit any, result any, _ any) error {
	u, err := unitOf(unit)
	if err != nil {
		return err
	}
	if u.Meta == nil {
		u.Meta = map[string]any{}
	}
	u.Meta[MetaAnnotationKey] = result
	return nil
}
