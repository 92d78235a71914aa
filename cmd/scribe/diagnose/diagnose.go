package diagnose

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/flarebyte/scribe/internal/app"
	"github.com/flarebyte/scribe/internal/results"
)

type options struct {
	config string
	file   string
	write  bool
}

// Report is printed by `scribe diagnose`.
type Report struct {
	Locator   string         `json:"locator"`
	Functions map[string]any `json:"functions"`
	Result    any            `json:"result"`
	HasResult bool           `json:"hasResult"`
	Changed   bool           `json:"changed"`
	Saved     bool           `json:"saved"`
}

// NewCmd returns the `scribe diagnose` command.
func NewCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:           "diagnose",
		Short:         "Run the stage functions over one document and print the recorded result",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.config == "" {
				return errors.New("missing required flag: --config")
			}
			if o.file == "" {
				return errors.New("missing required flag: --file")
			}
			return execute(cmd.Context(), cmd.OutOrStdout(), o)
		},
	}
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "Path to config file (.cue)")
	cmd.Flags().StringVar(&o.file, "file", "", "Document to diagnose")
	cmd.Flags().BoolVar(&o.write, "write", false, "Write the document back when it changed")
	return cmd
}

func execute(ctx context.Context, out io.Writer, o options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Load(o.config)
	if err != nil {
		return err
	}
	root, locator := splitLocator(a.Config.Discovery.Root, o.file)
	p := a.Pipeline(app.Overrides{Root: root, DryRun: !o.write})
	rec, err := p.ProcessOne(ctx, locator)
	if err != nil {
		return err
	}
	result, ok := results.Default.Get(results.Label)
	ids := a.Runner.Identifiers()
	return encodeJSON(out, Report{
		Locator: locator,
		Functions: map[string]any{
			"extractor":     ids.Extractor,
			"annotator":     ids.Annotator,
			"postprocessor": ids.PostProcessor,
		},
		Result:    result,
		HasResult: ok,
		Changed:   rec.Changed,
		Saved:     rec.Saved,
	})
}

// splitLocator expresses file relative to root when it lies under root, and
// relative to its own directory otherwise.
func splitLocator(root, file string) (string, string) {
	absRoot, err1 := filepath.Abs(root)
	absFile, err2 := filepath.Abs(file)
	if err1 == nil && err2 == nil {
		if rel, err := filepath.Rel(absRoot, absFile); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return absRoot, filepath.ToSlash(rel)
		}
	}
	return filepath.Dir(file), filepath.Base(file)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
