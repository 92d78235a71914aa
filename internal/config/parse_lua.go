package config

import (
	"cuelang.org/go/cue"
	"github.com/cockroachdb/errors"

	"github.com/flarebyte/scribe/internal/luafn"
)

// parseLuaSandboxSection extracts optional lua sandbox settings over the
// defaults.
func parseLuaSandboxSection(v cue.Value) (luafn.Sandbox, error) {
	s := luafn.DefaultSandbox()
	lv := lookup(v, "lua")
	if !lv.Exists() {
		return s, nil
	}
	wrap := func(err error) (luafn.Sandbox, error) { return luafn.Sandbox{}, errors.Wrap(err, "lua") }

	if n, ok, err := optionalInt(lv, "timeoutMs"); err != nil {
		return wrap(err)
	} else if ok {
		s.TimeoutMs = n
	}
	if n, ok, err := optionalInt(lv, "memoryLimitBytes"); err != nil {
		return wrap(err)
	} else if ok {
		s.MemoryLimitBytes = n
	}
	if b, ok, err := optionalBool(lv, "deterministicRandom"); err != nil {
		return wrap(err)
	} else if ok {
		s.DeterministicRandom = b
	}

	libs := lookup(lv, "libs")
	if !libs.Exists() {
		return s, nil
	}
	for name, dst := range map[string]*bool{
		"base":   &s.Libs.Base,
		"table":  &s.Libs.Table,
		"string": &s.Libs.String,
		"math":   &s.Libs.Math,
	} {
		b, ok, err := optionalBool(libs, name)
		if err != nil {
			return wrap(err)
		}
		if ok {
			*dst = b
		}
	}
	return s, nil
}
