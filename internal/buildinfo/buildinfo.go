// Package buildinfo exposes version metadata for the scribe CLI. Values can be
// overridden at build time via -ldflags; values set in the cli package are
// used when these are empty.
package buildinfo

import (
	"strings"

	"github.com/flarebyte/scribe/cli"
)

var (
	Version = "dev"
	Commit  = ""
	// Date is the build time, any format.
	Date    = ""
	BuiltBy = ""
)

// Info is the resolved build metadata.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	BuiltBy string `json:"built_by,omitempty"`
}

// Current resolves the package variables against the cli fallbacks.
func Current() Info {
	i := Info{Version: Version, Commit: Commit, Date: Date, BuiltBy: BuiltBy}
	if i.Version == "" {
		i.Version = cli.Version
	}
	if i.Version == "" {
		i.Version = "dev"
	}
	if i.Date == "" {
		i.Date = cli.Date
	}
	return i
}

// ShortCommit is the first seven characters of the commit.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// Summary returns a concise single-line version string.
func Summary() string {
	i := Current()
	var parts []string
	if i.Commit != "" {
		parts = append(parts, "commit="+i.ShortCommit())
	}
	if i.Date != "" {
		parts = append(parts, "date="+i.Date)
	}
	if len(parts) == 0 {
		return i.Version
	}
	return i.Version + " (" + strings.Join(parts, ", ") + ")"
}
