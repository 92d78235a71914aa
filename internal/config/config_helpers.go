package config

import (
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/cockroachdb/errors"
)

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, errors.Wrap(err, "failed to read config")
	}
	return compileBytes(data)
}

func compileBytes(data []byte) (cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return cue.Value{}, errors.Newf("invalid config: %v", err)
	}
	return v, nil
}

// lookup finds a direct child by label; labels may contain dashes.
func lookup(v cue.Value, name string) cue.Value {
	return v.LookupPath(cue.MakePath(cue.Str(name)))
}

func requireStringField(v cue.Value, name string) (string, error) {
	f := lookup(v, name)
	if !f.Exists() {
		return "", errors.Newf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return "", errors.Newf("invalid type for field: %s (expected string)", name)
	}
	var s string
	if err := f.Decode(&s); err != nil {
		return "", errors.Newf("invalid value for %s: %v", name, err)
	}
	return s, nil
}

// optionalString decodes a string field, reporting whether it was present.
func optionalString(v cue.Value, name string) (string, bool, error) {
	f := lookup(v, name)
	if !f.Exists() {
		return "", false, nil
	}
	if f.Kind() != cue.StringKind {
		return "", false, errors.Newf("invalid type for field: %s (expected string)", name)
	}
	var s string
	if err := f.Decode(&s); err != nil {
		return "", false, errors.Newf("invalid value for %s: %v", name, err)
	}
	return s, true, nil
}

func optionalBool(v cue.Value, name string) (bool, bool, error) {
	f := lookup(v, name)
	if !f.Exists() {
		return false, false, nil
	}
	if f.Kind() != cue.BoolKind {
		return false, false, errors.Newf("invalid type for field: %s (expected bool)", name)
	}
	var b bool
	if err := f.Decode(&b); err != nil {
		return false, false, errors.Newf("invalid value for %s: %v", name, err)
	}
	return b, true, nil
}

func optionalInt(v cue.Value, name string) (int, bool, error) {
	f := lookup(v, name)
	if !f.Exists() {
		return 0, false, nil
	}
	if f.Kind() != cue.IntKind {
		return 0, false, errors.Newf("invalid type for field: %s (expected int)", name)
	}
	var n int
	if err := f.Decode(&n); err != nil {
		return 0, false, errors.Newf("invalid value for %s: %v", name, err)
	}
	return n, true, nil
}
