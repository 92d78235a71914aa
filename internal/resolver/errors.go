package resolver

import "github.com/cockroachdb/errors"

var (
	// ErrUnknownFunction is returned when no factory is registered under an identifier.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrWrongRole is returned when an identifier is registered for another role.
	ErrWrongRole = errors.New("function registered for another role")
	// ErrMissingAnnotator is returned by Validate when no annotator is configured.
	ErrMissingAnnotator = errors.New("missing annotator identifier")
	// ErrKindMismatch is returned by Validate when adjacent stages disagree on kinds.
	ErrKindMismatch = errors.New("stage kind mismatch")
)
