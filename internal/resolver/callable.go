package resolver

import "context"

// Role names the position a function takes in the stage sequence.
type Role string

const (
	RoleExtractor     Role = "extractor"
	RoleAnnotator     Role = "annotator"
	RolePostProcessor Role = "postprocessor"
)

// ParseRole accepts the role names used in descriptors.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleExtractor, RoleAnnotator, RolePostProcessor:
		return Role(s), true
	}
	return "", false
}

// Extractor derives the annotator's input from a document unit and the
// optional processing context.
type Extractor interface {
	Extract(ctx context.Context, unit any, pctx any) (any, error)
}

// Annotator produces the annotation result.
type Annotator interface {
	Annotate(ctx context.Context, input any) (any, error)
}

// PostProcessor writes a result back into the document unit.
type PostProcessor interface {
	Post(ctx context.Context, unit any, result any, input any) error
}

type ExtractorFunc func(ctx context.Context, unit any, pctx any) (any, error)

func (f ExtractorFunc) Extract(ctx context.Context, unit any, pctx any) (any, error) {
	return f(ctx, unit, pctx)
}

type AnnotatorFunc func(ctx context.Context, input any) (any, error)

func (f AnnotatorFunc) Annotate(ctx context.Context, input any) (any, error) {
	return f(ctx, input)
}

type PostProcessorFunc func(ctx context.Context, unit any, result any, input any) error

func (f PostProcessorFunc) Post(ctx context.Context, unit any, result any, input any) error {
	return f(ctx, unit, result, input)
}
