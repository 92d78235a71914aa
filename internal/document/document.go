// Package document is the unit of work the scribe host delivers to the stage
// runner: one YAML file holding text, optional metadata and the annotation
// written back by a post-processor.
package document

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Unit is a loaded document. Locator is the slash-separated path relative to
// the discovery root and is not stored in the file.
type Unit struct {
	Locator    string         `yaml:"-" json:"locator"`
	Text       string         `yaml:"text" json:"text"`
	Meta       map[string]any `yaml:"meta,omitempty" json:"meta,omitempty"`
	Annotation any            `yaml:"annotation,omitempty" json:"annotation,omitempty"`
}

// Parse decodes document YAML.
func Parse(locator string, b []byte) (*Unit, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return nil, errors.Wrapf(err, "parse %s", locator)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return nil, errors.Newf("parse %s: document must be a mapping", locator)
	}
	u := &Unit{}
	if err := node.Content[0].Decode(u); err != nil {
		return nil, errors.Wrapf(err, "parse %s", locator)
	}
	u.Locator = locator
	return u, nil
}

// Load reads root/locator.
func Load(root, locator string) (*Unit, error) {
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(locator)))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", locator)
	}
	return Parse(locator, b)
}

// Save writes u back to root/locator in canonical form.
func Save(root string, u *Unit) error {
	b, err := Marshal(u)
	if err != nil {
		return err
	}
	p := filepath.Join(root, filepath.FromSlash(u.Locator))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrapf(err, "write %s", u.Locator)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", u.Locator)
	}
	return nil
}

// Fields exposes the unit as a plain map, the shape Lua functions see.
func (u *Unit) Fields() map[string]any {
	return map[string]any{
		"locator":    u.Locator,
		"text":       u.Text,
		"meta":       u.Meta,
		"annotation": u.Annotation,
	}
}

// SetAnnotation replaces the annotation.
func (u *Unit) SetAnnotation(v any) { u.Annotation = v }
