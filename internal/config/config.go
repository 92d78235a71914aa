package config

import (
	"cuelang.org/go/cue"
	"github.com/cockroachdb/errors"

	"github.com/flarebyte/scribe/internal/luafn"
	"github.com/flarebyte/scribe/internal/resolver"
)

// Descriptor field names for the three stage functions.
const (
	FieldExtractor     = "extractor-identifier"
	FieldAnnotator     = "annotator-identifier"
	FieldPostProcessor = "postprocessor-identifier"
)

const (
	OptionalStrict  = "strict"
	OptionalLenient = "lenient"

	ModeFailFast  = "fail-fast"
	ModeKeepGoing = "keep-going"

	DefaultSuffix = ".doc.yaml"
)

// Config is a validated descriptor.
type Config struct {
	ConfigVersion  string
	Functions      resolver.Identifiers
	OptionalStages string
	Discovery      Discovery
	Workers        int
	Errors         Errors
	Output         Output
	Params         map[string]any
	Lua            luafn.Sandbox
	Definitions    []luafn.Definition
}

// Lenient reports whether unknown optional identifiers are tolerated.
func (c Config) Lenient() bool { return c.OptionalStages == OptionalLenient }

// Discovery holds document discovery settings.
type Discovery struct {
	Root        string
	Suffix      string
	NoGitignore bool
	HasRoot     bool
}

// Errors selects how the host reacts to a failed document.
type Errors struct {
	Mode string
}

// Output holds report and write-back settings.
type Output struct {
	Lines  bool
	DryRun bool
}

// Parse loads the descriptor at path.
func Parse(path string) (Config, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Config{}, err
	}
	return parseValue(v)
}

// ParseBytes parses descriptor source held in memory.
func ParseBytes(data []byte) (Config, error) {
	v, err := compileBytes(data)
	if err != nil {
		return Config{}, err
	}
	return parseValue(v)
}

func parseValue(v cue.Value) (Config, error) {
	var c Config
	var err error
	if c.ConfigVersion, err = requireStringField(v, "configVersion"); err != nil {
		return Config{}, err
	}
	if !IsSupportedConfigVersion(c.ConfigVersion) {
		return Config{}, errors.Newf("unsupported configVersion: %q (supported: %s)", c.ConfigVersion, SupportedConfigVersionsCSV())
	}
	if c.Functions, err = parseIdentifiers(v); err != nil {
		return Config{}, err
	}
	if c.OptionalStages, err = parseOptionalStages(v); err != nil {
		return Config{}, err
	}
	if c.Discovery, err = parseDiscoverySection(v); err != nil {
		return Config{}, err
	}
	if c.Workers, err = parseWorkers(v); err != nil {
		return Config{}, err
	}
	if c.Errors, err = parseErrorsSection(v); err != nil {
		return Config{}, err
	}
	if c.Output, err = parseOutputSection(v); err != nil {
		return Config{}, err
	}
	if c.Params, err = parseParams(v); err != nil {
		return Config{}, err
	}
	if c.Lua, err = parseLuaSandboxSection(v); err != nil {
		return Config{}, err
	}
	if c.Definitions, err = parseFunctionsSection(v); err != nil {
		return Config{}, err
	}
	return c, nil
}
