// Package discover finds document files under a root directory.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	gitgitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Options controls a walk.
type Options struct {
	Suffix      string
	NoGitignore bool
	// KeepGoing records unreadable entries as problems instead of failing.
	KeepGoing bool
}

// Problem is an entry that could not be visited in keep-going mode.
type Problem struct {
	Locator string `json:"locator"`
	Message string `json:"message"`
}

// Find walks root and returns sorted slash-separated locators of files ending
// in opts.Suffix, relative to root.
func Find(root string, opts Options) ([]string, []Problem, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, errors.Wrap(err, "discover")
	}
	w := &walker{absRoot: absRoot, opts: opts}
	if err := w.walk(absRoot, nil); err != nil {
		return nil, nil, err
	}
	sort.Strings(w.locators)
	sort.Slice(w.problems, func(i, j int) bool { return w.problems[i].Locator < w.problems[j].Locator })
	return w.locators, w.problems, nil
}

type walker struct {
	absRoot  string
	opts     Options
	locators []string
	problems []Problem
}

func (w *walker) locator(p string) string {
	rel, err := filepath.Rel(w.absRoot, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func (w *walker) fail(p string, err error) error {
	if w.opts.KeepGoing {
		w.problems = append(w.problems, Problem{Locator: w.locator(p), Message: err.Error()})
		return nil
	}
	return errors.Wrapf(err, "discover: %s", w.locator(p))
}

// walk visits dir with the patterns inherited from its parents.
func (w *walker) walk(dir string, inherited []gitgitignore.Pattern) error {
	patterns := inherited
	if !w.opts.NoGitignore {
		patterns = append(append([]gitgitignore.Pattern(nil), inherited...), readPatterns(dir, components(w.locator(dir)))...)
	}
	var m gitgitignore.Matcher
	if len(patterns) > 0 {
		m = gitgitignore.NewMatcher(patterns)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return w.fail(dir, err)
	}
	for _, ent := range entries {
		p := filepath.Join(dir, ent.Name())
		info, err := os.Stat(p)
		if err != nil {
			if ferr := w.fail(p, err); ferr != nil {
				return ferr
			}
			continue
		}
		loc := w.locator(p)
		if m != nil && m.Match(components(loc), info.IsDir()) {
			continue
		}
		if info.IsDir() {
			// Symlinked directories are not followed.
			if ent.Type()&os.ModeSymlink != 0 {
				continue
			}
			if err := w.walk(p, patterns); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(ent.Name(), w.opts.Suffix) {
			w.locators = append(w.locators, loc)
		}
	}
	return nil
}

func components(loc string) []string {
	if loc == "." || loc == "" {
		return nil
	}
	return strings.Split(loc, "/")
}

// readPatterns parses dir/.gitignore, scoping each pattern to base.
func readPatterns(dir string, base []string) []gitgitignore.Pattern {
	b, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	var out []gitgitignore.Pattern
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, gitgitignore.ParsePattern(line, base))
	}
	return out
}
