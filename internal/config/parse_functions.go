package config

import (
	"sort"

	"cuelang.org/go/cue"
	"github.com/cockroachdb/errors"

	"github.com/flarebyte/scribe/internal/luafn"
	"github.com/flarebyte/scribe/internal/resolver"
)

func parseIdentifiers(v cue.Value) (resolver.Identifiers, error) {
	var ids resolver.Identifiers
	var err error
	if ids.Annotator, err = requireStringField(v, FieldAnnotator); err != nil {
		return resolver.Identifiers{}, err
	}
	if ids.Annotator == "" {
		return resolver.Identifiers{}, errors.Newf("invalid %s: must not be empty", FieldAnnotator)
	}
	if ids.Extractor, _, err = optionalString(v, FieldExtractor); err != nil {
		return resolver.Identifiers{}, err
	}
	if ids.PostProcessor, _, err = optionalString(v, FieldPostProcessor); err != nil {
		return resolver.Identifiers{}, err
	}
	return ids, nil
}

// parseFunctionsSection reads inline function definitions, sorted by id.
func parseFunctionsSection(v cue.Value) ([]luafn.Definition, error) {
	fv := lookup(v, "functions")
	if !fv.Exists() {
		return nil, nil
	}
	if fv.Kind() != cue.StructKind {
		return nil, errors.New("invalid functions: must be object")
	}
	it, err := fv.Fields()
	if err != nil {
		return nil, errors.Newf("invalid functions: %v", err)
	}
	var defs []luafn.Definition
	for it.Next() {
		id := it.Selector().Unquoted()
		def, err := parseDefinition(id, it.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs, nil
}

func parseDefinition(id string, v cue.Value) (luafn.Definition, error) {
	def := luafn.Definition{ID: id}
	fail := func(format string, args ...any) (luafn.Definition, error) {
		return luafn.Definition{}, errors.Newf("invalid functions.%s: "+format, append([]any{id}, args...)...)
	}

	role, err := requireStringField(v, "role")
	if err != nil {
		return fail("%v", err)
	}
	r, ok := resolver.ParseRole(role)
	if !ok {
		return fail("unknown role %q", role)
	}
	def.Role = r

	if def.Inline, err = requireStringField(v, "inline"); err != nil {
		return fail("%v", err)
	}
	for _, k := range []struct {
		field string
		dst   *resolver.Kind
	}{{"in", &def.Sig.In}, {"out", &def.Sig.Out}} {
		s, _, err := optionalString(v, k.field)
		if err != nil {
			return fail("%v", err)
		}
		kind, ok := resolver.ParseKind(s)
		if !ok {
			return fail("unknown kind %q", s)
		}
		*k.dst = kind
	}
	if def.Requires, _, err = optionalString(v, "requires"); err != nil {
		return fail("%v", err)
	}
	return def, nil
}
