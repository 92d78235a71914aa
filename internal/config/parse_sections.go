package config

import (
	"cuelang.org/go/cue"
	"github.com/cockroachdb/errors"
)

func parseOptionalStages(v cue.Value) (string, error) {
	s, ok, err := optionalString(v, "optionalStages")
	if err != nil {
		return "", err
	}
	if !ok {
		return OptionalStrict, nil
	}
	if s != OptionalStrict && s != OptionalLenient {
		return "", errors.Newf("invalid optionalStages: must be '%s' or '%s'", OptionalStrict, OptionalLenient)
	}
	return s, nil
}

// parseDiscoverySection extracts optional discovery.* fields.
func parseDiscoverySection(v cue.Value) (Discovery, error) {
	d := Discovery{Root: ".", Suffix: DefaultSuffix}
	dv := lookup(v, "discovery")
	if !dv.Exists() {
		return d, nil
	}
	root, ok, err := optionalString(dv, "root")
	if err != nil {
		return Discovery{}, errors.Wrap(err, "discovery")
	}
	if ok {
		d.Root, d.HasRoot = root, true
	}
	suffix, ok, err := optionalString(dv, "suffix")
	if err != nil {
		return Discovery{}, errors.Wrap(err, "discovery")
	}
	if ok {
		if suffix == "" {
			return Discovery{}, errors.New("invalid discovery.suffix: must not be empty")
		}
		d.Suffix = suffix
	}
	if d.NoGitignore, _, err = optionalBool(dv, "noGitignore"); err != nil {
		return Discovery{}, errors.Wrap(err, "discovery")
	}
	return d, nil
}

func parseWorkers(v cue.Value) (int, error) {
	n, ok, err := optionalInt(v, "workers")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	if n < 1 {
		return 0, errors.New("invalid workers: must be >= 1")
	}
	return n, nil
}

// parseErrorsSection extracts optional errors.mode.
func parseErrorsSection(v cue.Value) (Errors, error) {
	e := Errors{Mode: ModeFailFast}
	ev := lookup(v, "errors")
	if !ev.Exists() {
		return e, nil
	}
	mode, ok, err := optionalString(ev, "mode")
	if err != nil {
		return Errors{}, errors.Wrap(err, "errors")
	}
	if ok {
		if mode != ModeFailFast && mode != ModeKeepGoing {
			return Errors{}, errors.Newf("invalid errors.mode: must be '%s' or '%s'", ModeFailFast, ModeKeepGoing)
		}
		e.Mode = mode
	}
	return e, nil
}

// parseOutputSection extracts optional output.* fields.
func parseOutputSection(v cue.Value) (Output, error) {
	var o Output
	ov := lookup(v, "output")
	if !ov.Exists() {
		return o, nil
	}
	var err error
	if o.Lines, _, err = optionalBool(ov, "lines"); err != nil {
		return Output{}, errors.Wrap(err, "output")
	}
	if o.DryRun, _, err = optionalBool(ov, "dryRun"); err != nil {
		return Output{}, errors.Wrap(err, "output")
	}
	return o, nil
}

// parseParams decodes the free-form params object handed to extractors.
func parseParams(v cue.Value) (map[string]any, error) {
	pv := lookup(v, "params")
	if !pv.Exists() {
		return map[string]any{}, nil
	}
	out := map[string]any{}
	if err := pv.Decode(&out); err != nil {
		return nil, errors.New("invalid params: must be object")
	}
	return out, nil
}
