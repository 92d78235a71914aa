package run

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/flarebyte/scribe/internal/app"
	"github.com/flarebyte/scribe/internal/logging"
	"github.com/flarebyte/scribe/internal/pipeline"
)

const (
	exitCodeExecErr   = 1
	exitCodeNoSuccess = 2
)

type runExitError struct {
	code int
	msg  string
}

func (e runExitError) Error() string { return e.msg }
func (e runExitError) ExitCode() int { return e.code }

type options struct {
	config string
	root   string
	dryRun bool
}

// NewCmd returns the `scribe run` command.
func NewCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:           "run",
		Short:         "Annotate every document under the discovery root",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.config == "" {
				return errors.New("missing required flag: --config")
			}
			return execute(cmd.Context(), cmd.OutOrStdout(), o)
		},
	}
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "Path to config file (.cue)")
	cmd.Flags().StringVar(&o.root, "root", "", "Discovery root, overrides discovery.root")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Report changes without writing documents")
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
	log := logging.Named("run")
	log.Infow("starting run",
		logging.FieldMode, a.Config.Errors.Mode,
		"workers", a.Config.Workers,
	)
	env, runErr := a.Pipeline(app.Overrides{Root: o.root, DryRun: o.dryRun}).Run(ctx)
	if runErr != nil && !errors.Is(runErr, pipeline.ErrNoSuccess) {
		return runExitError{code: exitCodeExecErr, msg: runErr.Error()}
	}
	if err := pipeline.Write(out, env, a.Config.Output.Lines); err != nil {
		return err
	}
	log.Infow("run finished",
		logging.FieldCount, len(env.Records),
		"failed", len(env.Records)-env.Succeeded(),
	)
	if runErr != nil {
		return runExitError{code: exitCodeNoSuccess, msg: runErr.Error()}
	}
	return nil
}
