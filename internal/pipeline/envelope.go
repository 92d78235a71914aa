package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/flarebyte/scribe/internal/discover"
	"github.com/flarebyte/scribe/internal/stage"
)

// Stage names for failures outside the stage runner.
const (
	StageDiscover = "discover"
	StageLoad     = "load"
	StageSave     = "save"
)

// Error is a per-document failure recorded in keep-going mode.
type Error struct {
	Stage   string `json:"stage"`
	Locator string `json:"locator,omitempty"`
	Message string `json:"message"`
}

// Record is the outcome of one document.
type Record struct {
	Locator string `json:"locator"`
	Result  any    `json:"result,omitempty"`
	Changed bool   `json:"changed"`
	Saved   bool   `json:"saved"`
	Error   *Error `json:"error,omitempty"`
}

// Envelope is the run report. Field order is stable to keep JSON
// deterministic.
type Envelope struct {
	Records []Record `json:"records"`
	Errors  []Error  `json:"errors,omitempty"`
}

// Succeeded counts records without an error.
func (e Envelope) Succeeded() int {
	n := 0
	for _, r := range e.Records {
		if r.Error == nil {
			n++
		}
	}
	return n
}

func sanitizeMessage(msg string) string {
	s := strings.Join(strings.Fields(msg), " ")
	if s == "" {
		return "error"
	}
	return s
}

// hostError is a failure in the host's own load or save step.
type hostError struct {
	stage string
	cause error
}

func hostErr(stage string, cause error) error {
	return &hostError{stage: stage, cause: errors.WithStackDepth(cause, 1)}
}

func (e *hostError) Error() string { return e.stage + ": " + e.cause.Error() }
func (e *hostError) Unwrap() error { return e.cause }

// errorFor classifies err by the stage that produced it.
func errorFor(locator string, err error) Error {
	name := "run"
	var se *stage.Error
	var he *hostError
	switch {
	case errors.As(err, &se):
		name = se.Stage
	case errors.As(err, &he):
		name = he.stage
	}
	return Error{Stage: name, Locator: locator, Message: sanitizeMessage(err.Error())}
}

func discoveryErrors(problems []discover.Problem) []Error {
	out := make([]Error, 0, len(problems))
	for _, p := range problems {
		out = append(out, Error{Stage: StageDiscover, Locator: p.Locator, Message: sanitizeMessage(p.Message)})
	}
	return out
}

// sortErrors orders errors by (stage, locator, message).
func sortErrors(errs []Error) {
	sort.Slice(errs, func(i, j int) bool {
		ei, ej := errs[i], errs[j]
		if ei.Stage != ej.Stage {
			return ei.Stage < ej.Stage
		}
		if ei.Locator != ej.Locator {
			return ei.Locator < ej.Locator
		}
		return ei.Message < ej.Message
	})
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes env to w, either as one JSON document or as one line per
// record.
func Write(w io.Writer, env Envelope, lines bool) error {
	if !lines {
		b, err := encodeJSON(env)
		if err != nil {
			return errors.Wrap(err, "encode report")
		}
		_, err = w.Write(b)
		return err
	}
	for _, r := range env.Records {
		b, err := encodeJSON(r)
		if err != nil {
			return errors.Wrap(err, "encode report")
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}
