package stage

import (
	"github.com/cockroachdb/errors"

	"github.com/flarebyte/scribe/internal/resolver"
)

const (
	StageResolve  = "resolve"
	StageExtract  = "extract"
	StageAnnotate = "annotate"
	StagePost     = "post"
)

// Error is the single failure a host sees for a unit of work. Cause keeps the
// original error reachable through errors.Is and errors.As.
type Error struct {
	Stage string
	Role  resolver.Role
	Cause error
}

func (e *Error) Error() string {
	if e.Stage == StageResolve {
		return "resolve " + string(e.Role) + ": " + e.Cause.Error()
	}
	return e.Stage + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(stage string, role resolver.Role, cause error) *Error {
	return &Error{Stage: stage, Role: role, Cause: errors.WithStackDepth(cause, 1)}
}
