package functions

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/flarebyte/scribe/internal/app"
	"github.com/flarebyte/scribe/internal/builtin"
	"github.com/flarebyte/scribe/internal/config"
	"github.com/flarebyte/scribe/internal/resolver"
)

// Entry is one line of `scribe functions` output.
type Entry struct {
	resolver.Descriptor
	Selected bool `json:"selected,omitempty"`
}

// NewCmd returns the `scribe functions` command.
func NewCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:           "functions",
		Short:         "List registered stage functions, one JSON object per line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := list(cfgPath)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.cue); adds its inline functions")
	return cmd
}

func list(cfgPath string) ([]Entry, error) {
	if cfgPath == "" {
		reg, err := builtin.NewRegistry()
		if err != nil {
			return nil, err
		}
		return entries(reg, resolver.Identifiers{}), nil
	}
	cfg, err := config.Parse(cfgPath)
	if err != nil {
		return nil, err
	}
	reg, err := app.NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	return entries(reg, cfg.Functions), nil
}

func entries(reg *resolver.Registry, ids resolver.Identifiers) []Entry {
	selected := map[resolver.Role]string{
		resolver.RoleExtractor:     ids.Extractor,
		resolver.RoleAnnotator:     ids.Annotator,
		resolver.RolePostProcessor: ids.PostProcessor,
	}
	descs := reg.List()
	out := make([]Entry, 0, len(descs))
	for _, d := range descs {
		out = append(out, Entry{Descriptor: d, Selected: selected[d.Role] == d.ID})
	}
	return out
}

func write(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
