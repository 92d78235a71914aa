package resolver

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Identifiers are the three configured function identifiers. Extractor and
// PostProcessor may be empty.
type Identifiers struct {
	Extractor     string `json:"extractor,omitempty"`
	Annotator     string `json:"annotator"`
	PostProcessor string `json:"postprocessor,omitempty"`
}

// Validate checks ids against the registry before any document is processed.
//
// An unknown optional identifier is an error unless lenient is set, in which
// case it is reported as a warning and the role is treated as absent. Kinds of
// adjacent stages must be compatible along the path that will actually run.
func (r *Registry) Validate(ids Identifiers, lenient bool) ([]string, error) {
	var warnings []string
	if ids.Annotator == "" {
		return nil, ErrMissingAnnotator
	}
	ann, err := r.lookup(ids.Annotator, RoleAnnotator)
	if err != nil {
		return nil, err
	}

	optional := func(id string, role Role) (*entry, error) {
		if id == "" {
			return nil, nil
		}
		e, err := r.lookup(id, role)
		if err != nil {
			if lenient {
				warnings = append(warnings, fmt.Sprintf("%v; %s treated as absent", err, role))
				return nil, nil
			}
			return nil, err
		}
		return &e, nil
	}
	ext, err := optional(ids.Extractor, RoleExtractor)
	if err != nil {
		return nil, err
	}
	post, err := optional(ids.PostProcessor, RolePostProcessor)
	if err != nil {
		return nil, err
	}

	if ext != nil {
		if !Compatible(ext.desc.Sig.Out, ann.desc.Sig.In) {
			return nil, errors.Wrapf(ErrKindMismatch, "extractor %q produces %s, annotator %q expects %s",
				ext.desc.ID, ext.desc.Sig.Out, ann.desc.ID, ann.desc.Sig.In)
		}
	} else if !Compatible(KindDocument, ann.desc.Sig.In) {
		return nil, errors.Wrapf(ErrKindMismatch, "annotator %q expects %s but receives the document without an extractor",
			ann.desc.ID, ann.desc.Sig.In)
	}

	if post != nil {
		if ext == nil {
			warnings = append(warnings, fmt.Sprintf("postprocessor %q never runs without an extractor", post.desc.ID))
		} else {
			if !Compatible(ann.desc.Sig.Out, post.desc.Sig.Out) {
				return nil, errors.Wrapf(ErrKindMismatch, "annotator %q produces %s, postprocessor %q accepts %s",
					ann.desc.ID, ann.desc.Sig.Out, post.desc.ID, post.desc.Sig.Out)
			}
			if !Compatible(ext.desc.Sig.Out, post.desc.Sig.In) {
				return nil, errors.Wrapf(ErrKindMismatch, "extractor %q produces %s, postprocessor %q expects %s",
					ext.desc.ID, ext.desc.Sig.Out, post.desc.ID, post.desc.Sig.In)
			}
		}
	}
	return warnings, nil
}
